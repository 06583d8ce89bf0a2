package grpcnav

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkmnav/navcore/internal/navwire"
	"github.com/pkmnav/navcore/lib"
)

type memLoader struct {
	maps map[string]lib.MapDescriptor
}

func (m *memLoader) LoadMapDescriptor(_ context.Context, mapID string) (lib.MapDescriptor, error) {
	d, ok := m.maps[mapID]
	if !ok {
		return lib.MapDescriptor{}, fmt.Errorf("no such map: %s", mapID)
	}
	return d, nil
}

func TestServerFindPath(t *testing.T) {
	d := lib.MapDescriptor{
		MapID:         "PALLETTOWN",
		Width:         10,
		Height:        10,
		WalkableTiles: []int{0},
		TileIDs:       make([]int, 100),
	}
	loader := &memLoader{maps: map[string]lib.MapDescriptor{"PALLETTOWN": d}}
	router := lib.NewRegionRouter(lib.NewMapStore(loader))
	srv := NewServer(":0", router)

	req := &navwire.FindPathRequestWire{
		FromMapID: "PALLETTOWN",
		FromX:     0,
		FromY:     0,
		ToMapID:   "PALLETTOWN",
	}
	toX, toY := 5, 5
	req.ToX, req.ToY = &toX, &toY

	out, err := srv.FindPath(context.Background(), req)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if !out.Success {
		t.Fatalf("expected success, got error %q", out.Error)
	}
	if out.TotalMoves != 10 {
		t.Errorf("total_moves = %d, want 10 (Manhattan distance on an open grid)", out.TotalMoves)
	}
}
