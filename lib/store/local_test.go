package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkmnav/navcore/lib"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := lib.MapDescriptor{
		MapID:         "PALLETTOWN",
		Width:         10,
		Height:        10,
		WalkableTiles: []int{0},
		LedgeTiles:    map[string]lib.TileClass{"3,4": lib.LedgeDown},
	}
	body, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "PALLETTOWN.json"), body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewLocalStore(dir)
	got, err := s.LoadMapDescriptor(context.Background(), "pallet_town")
	if err != nil {
		t.Fatalf("LoadMapDescriptor: %v", err)
	}
	if got.Width != 10 || got.Height != 10 {
		t.Errorf("loaded descriptor = %+v, want 10x10", got)
	}
	if got.LedgeTiles["3,4"] != lib.LedgeDown {
		t.Errorf("ledge_tiles did not round-trip through JSON: got %v", got.LedgeTiles)
	}
}

func TestLocalStoreMissing(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	if _, err := s.LoadMapDescriptor(context.Background(), "NOWHERE"); err == nil {
		t.Fatalf("expected an error for a missing descriptor")
	}
}
