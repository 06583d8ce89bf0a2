package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	loginTokenURL     string
	loginClientID     string
	loginClientSecret string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Fetch and cache an access token for a remote navserver",
	Long: `Runs the OAuth2 client-credentials grant against --token-url and caches
the resulting access token at ~/.navcore/token.json, for use by commands
that call a remote navserver instead of a local map store.`,
	SilenceUsage: true,
	RunE:         runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginTokenURL, "token-url", "", "OAuth2 token endpoint (required, env: NAVCORE_TOKEN_URL)")
	loginCmd.Flags().StringVar(&loginClientID, "client-id", "", "OAuth2 client id (env: NAVCORE_CLIENT_ID)")
	loginCmd.Flags().StringVar(&loginClientSecret, "client-secret", "", "OAuth2 client secret (env: NAVCORE_CLIENT_SECRET)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	tokenURL := firstNonEmpty(loginTokenURL, os.Getenv("NAVCORE_TOKEN_URL"))
	clientID := firstNonEmpty(loginClientID, os.Getenv("NAVCORE_CLIENT_ID"))
	clientSecret := firstNonEmpty(loginClientSecret, os.Getenv("NAVCORE_CLIENT_SECRET"))
	if tokenURL == "" || clientID == "" || clientSecret == "" {
		return fmt.Errorf("login requires --token-url, --client-id, and --client-secret")
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}

	token, err := conf.Token(cmd.Context())
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	path, err := tokenCachePath()
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	body, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := os.WriteFile(path, body, 0o600); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Printf("token cached at %s (expires %s)\n", path, token.Expiry)
	return nil
}

func tokenCachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".navcore", "token.json"), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
