// Package cmd holds the navcli cobra command tree.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joho/godotenv"
)

var (
	cfgFile   string
	mapsDir   string
	storeKind string
	jsonOut   bool
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:          "navcli",
	Short:        "navcore CLI - plan routes through the navigation core",
	SilenceUsage: true,
	Long: `navcli is a command-line interface to the navigation core.

Examples:
  navcli route --from PALLETTOWN:5,5 --to ROUTE1
  navcli route --from PALLETTOWN:5,5 --to ROUTE1:3,3 --hms Cut,Surf --json`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.navcore.yaml)")
	rootCmd.PersistentFlags().StringVar(&mapsDir, "maps-dir", "", "directory of map descriptor JSON files (env: NAVCORE_MAPS_DIR)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "local", "map store backend name (env: NAVCORE_STORE); route always reads descriptors from the local --maps-dir store and does not use this value")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output the RoutePlan as JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose logging")

	viper.BindPFlag("maps-dir", rootCmd.PersistentFlags().Lookup("maps-dir"))
	viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".navcore")
		}
	}

	viper.SetEnvPrefix("NAVCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func getMapsDir() string {
	if rootCmd.PersistentFlags().Changed("maps-dir") {
		return mapsDir
	}
	if v := viper.GetString("maps-dir"); v != "" {
		return v
	}
	return "./maps"
}

func isJSONOutput() bool {
	return viper.GetBool("json")
}
