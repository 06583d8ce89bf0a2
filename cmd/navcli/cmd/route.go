package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkmnav/navcore/internal/navwire"
	"github.com/pkmnav/navcore/lib"
	"github.com/pkmnav/navcore/lib/store"
)

var (
	fromArg       string
	toArg         string
	hmsArg        string
	avoidGrass    bool
	avoidTrainers bool
	defeatedArg   string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Plan a route between two coordinates",
	Long: `Plan a route from one coordinate to another, optionally crossing maps.

Positions are "MAPID:x,y" or bare "MAPID" for the map's centre.

Examples:
  navcli route --from PALLETTOWN:5,5 --to ROUTE1
  navcli route --from PALLETTOWN:5,5 --to ROUTE1:3,3 --hms Cut,Surf`,
	SilenceUsage: true,
	RunE:         runRoute,
}

func init() {
	routeCmd.Flags().StringVar(&fromArg, "from", "", "source position, MAPID:x,y (required)")
	routeCmd.Flags().StringVar(&toArg, "to", "", "destination position, MAPID:x,y or bare MAPID (required)")
	routeCmd.Flags().StringVar(&hmsArg, "hms", "", "comma-separated HMs available: Cut,Fly,Surf,Strength,Flash")
	routeCmd.Flags().BoolVar(&avoidGrass, "avoid-grass", true, "bias the route away from grass tiles")
	routeCmd.Flags().BoolVar(&avoidTrainers, "avoid-trainers", true, "bias the route away from trainer vision fields")
	routeCmd.Flags().StringVar(&defeatedArg, "defeated", "", "comma-separated trainer ids already defeated")
	routeCmd.MarkFlagRequired("from")
	routeCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	from, err := parsePosition(fromArg, true)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := parsePosition(toArg, false)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}

	loader := store.NewLocalStore(getMapsDir())
	router := lib.NewRegionRouter(lib.NewMapStore(loader))

	prefs := lib.Preferences{AvoidGrass: avoidGrass, AvoidTrainers: avoidTrainers}
	hms := lib.NewHMSet(parseHMs(hmsArg)...)
	defeated := parseDefeated(defeatedArg)

	plan := lib.FindPath(context.Background(), router, from, to, hms, prefs, defeated)

	if isJSONOutput() {
		return printRoutePlanJSON(plan)
	}
	printRoutePlanText(plan)
	return nil
}

func parsePosition(raw string, requireCoords bool) (lib.Coordinate, error) {
	mapPart, coordPart, hasCoords := strings.Cut(raw, ":")
	if mapPart == "" {
		return lib.Coordinate{}, fmt.Errorf("empty map id")
	}
	if !hasCoords {
		if requireCoords {
			return lib.Coordinate{}, fmt.Errorf("%q requires x,y coordinates", raw)
		}
		return lib.Coordinate{MapID: lib.CanonicalizeMapID(mapPart), X: -1, Y: -1}, nil
	}

	xs, ys, ok := strings.Cut(coordPart, ",")
	if !ok {
		return lib.Coordinate{}, fmt.Errorf("malformed coordinate %q, want x,y", coordPart)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return lib.Coordinate{}, fmt.Errorf("malformed x in %q: %w", coordPart, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return lib.Coordinate{}, fmt.Errorf("malformed y in %q: %w", coordPart, err)
	}
	return lib.NewCoordinate(mapPart, x, y), nil
}

func parseHMs(raw string) []lib.HM {
	if raw == "" {
		return nil
	}
	var out []lib.HM
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, lib.HM(tok))
		}
	}
	return out
}

func parseDefeated(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out[tok] = true
		}
	}
	return out
}

func printRoutePlanJSON(plan lib.RoutePlan) error {
	body, err := json.MarshalIndent(navwire.FromRoutePlan(plan), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func printRoutePlanText(plan lib.RoutePlan) {
	if !plan.Success {
		fmt.Printf("FAILED: %v (maps_traversed=%v)\n", plan.Err, plan.MapsTraversed)
		return
	}
	fmt.Printf("success, %d moves across %d map(s)\n", plan.TotalMoves, len(plan.MapsTraversed))
	for _, seg := range plan.Segments {
		fmt.Printf("  %s: %v\n", seg.MapID, seg.Moves)
	}
	if len(plan.HMsRequired) > 0 {
		fmt.Printf("HMs required: %v\n", plan.HMsRequired)
	}
}
