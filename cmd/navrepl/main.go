// Command navrepl is an interactive, history-backed shell over the
// navigation core: load a maps directory once, then issue repeated
// "route" commands without paying process-startup cost each time.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/pkmnav/navcore/lib"
	"github.com/pkmnav/navcore/lib/store"
)

func main() {
	mapsDir := flag.String("maps-dir", "./maps", "directory of map descriptor JSON files")
	flag.Parse()

	repl, err := newREPL(*mapsDir)
	if err != nil {
		log.Fatalf("navrepl: %v", err)
	}
	defer repl.Close()

	fmt.Println("navrepl - navigation core shell. Type 'help' for commands, 'quit' to exit.")
	repl.run()
}

type repl struct {
	router   *lib.RegionRouter
	readline *readline.Instance
	defeated map[string]bool
}

func newREPL(mapsDir string) (*repl, error) {
	loader := store.NewLocalStore(mapsDir)
	router := lib.NewRegionRouter(lib.NewMapStore(loader))

	homeDir, _ := os.UserHomeDir()
	historyFile := filepath.Join(homeDir, ".navrepl_history")

	completer := readline.NewPrefixCompleter(
		readline.PcItem("route"),
		readline.PcItem("defeat"),
		readline.PcItem("defeated"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
		readline.PcItem("exit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "navrepl> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &repl{router: router, readline: rl, defeated: make(map[string]bool)}, nil
}

func (r *repl) Close() error {
	return r.readline.Close()
}

func (r *repl) run() {
	for {
		line, err := r.readline.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			log.Printf("error reading input: %v", err)
			return
		}

		command := strings.TrimSpace(line)
		if command == "" {
			continue
		}

		result := r.execute(command)
		if result == "quit" {
			fmt.Println("Goodbye!")
			return
		}
		fmt.Println(result)
	}
}

func (r *repl) execute(command string) string {
	fields := strings.Fields(command)
	switch fields[0] {
	case "quit", "exit":
		return "quit"
	case "help":
		return helpText
	case "defeat":
		if len(fields) != 2 {
			return "usage: defeat <trainer-id>"
		}
		r.defeated[fields[1]] = true
		return fmt.Sprintf("marked %s as defeated", fields[1])
	case "defeated":
		if len(r.defeated) == 0 {
			return "(none)"
		}
		var ids []string
		for id := range r.defeated {
			ids = append(ids, id)
		}
		return strings.Join(ids, ", ")
	case "route":
		if len(fields) < 3 {
			return "usage: route <from MAPID:x,y> <to MAPID[:x,y]> [hm1,hm2,...]"
		}
		return r.route(fields[1], fields[2], fields[3:])
	default:
		return fmt.Sprintf("unknown command %q, type 'help'", fields[0])
	}
}

func (r *repl) route(fromRaw, toRaw string, hmArgs []string) string {
	from, err := parsePosition(fromRaw, true)
	if err != nil {
		return fmt.Sprintf("invalid from position: %v", err)
	}
	to, err := parsePosition(toRaw, false)
	if err != nil {
		return fmt.Sprintf("invalid to position: %v", err)
	}

	var hmList []lib.HM
	for _, tok := range hmArgs {
		for _, s := range strings.Split(tok, ",") {
			if s != "" {
				hmList = append(hmList, lib.HM(s))
			}
		}
	}

	plan := lib.FindPath(context.Background(), r.router, from, to, lib.NewHMSet(hmList...), lib.DefaultPreferences(), r.defeated)
	if !plan.Success {
		return fmt.Sprintf("FAILED: %v (maps_traversed=%v)", plan.Err, plan.MapsTraversed)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "success, %d moves across %d map(s)\n", plan.TotalMoves, len(plan.MapsTraversed))
	for _, seg := range plan.Segments {
		fmt.Fprintf(&sb, "  %s: %v\n", seg.MapID, seg.Moves)
	}
	if len(plan.HMsRequired) > 0 {
		fmt.Fprintf(&sb, "HMs required: %v", plan.HMsRequired)
	}
	return sb.String()
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
		return lib.Coordinate{}, fmt.Errorf("malformed coordinate %q", coordPart)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return lib.Coordinate{}, fmt.Errorf("malformed x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return lib.Coordinate{}, fmt.Errorf("malformed y: %w", err)
	}
	return lib.NewCoordinate(mapPart, x, y), nil
}

const helpText = `commands:
  route <from MAPID:x,y> <to MAPID[:x,y]> [hms]   plan a route
  defeat <trainer-id>                             mark a trainer defeated for this session
  defeated                                        list defeated trainers
  help                                             show this text
  quit                                             exit`
