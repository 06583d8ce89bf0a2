// Package store provides concrete lib.MapLoader backends: local JSON files,
// Postgres (via GORM), S3-compatible object storage, and GCP Datastore. The
// core package knows nothing about any of these; each backend only needs to
// satisfy lib.MapLoader.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkmnav/navcore/lib"
)

// LocalStore loads map descriptors from a directory of "<MAPID>.json" files,
// the simplest possible MapLoader and the default for local development and
// tests.
type LocalStore struct {
	Dir string
}

// NewLocalStore wraps a directory of map descriptor JSON files.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{Dir: dir}
}

func (s *LocalStore) LoadMapDescriptor(_ context.Context, mapID string) (lib.MapDescriptor, error) {
	canon := lib.CanonicalizeMapID(mapID)
	path := filepath.Join(s.Dir, canon+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return lib.MapDescriptor{}, fmt.Errorf("local store: %s: %w", canon, err)
	}

	var d lib.MapDescriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return lib.MapDescriptor{}, fmt.Errorf("local store: %s: malformed descriptor: %w", canon, err)
	}
	return d, nil
}
