//go:build !wasm
// +build !wasm

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cloud.google.com/go/datastore"

	"github.com/pkmnav/navcore/lib"
)

// mapDescriptorEntity is the Datastore kind holding a serialized descriptor,
// mirroring the source's convention of storing structured JSON blobs under
// a namespaced key rather than modeling every descriptor field as its own
// property.
type mapDescriptorEntity struct {
	Descriptor string `datastore:",noindex"`
}

// DatastoreStore loads map descriptors from GCP Datastore.
type DatastoreStore struct {
	client    *datastore.Client
	Namespace string
}

// DatastoreConfig mirrors gaebe.Config: project and optional namespace for
// multi-tenant isolation.
type DatastoreConfig struct {
	ProjectID string
	Namespace string
}

// OpenDatastoreStore creates a Datastore client, falling back to the usual
// environment variables when ProjectID is unset.
func OpenDatastoreStore(ctx context.Context, cfg DatastoreConfig) (*DatastoreStore, error) {
	projectID := cfg.ProjectID
	if projectID == "" {
		projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
	}
	if projectID == "" {
		projectID = os.Getenv("DATASTORE_PROJECT_ID")
	}
	if projectID == "" {
		projectID = os.Getenv("GAE_PROJECT")
	}

	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("datastore store: connect: %w", err)
	}
	return &DatastoreStore{client: client, Namespace: cfg.Namespace}, nil
}

func (s *DatastoreStore) key(mapID string) *datastore.Key {
	key := datastore.NameKey("MapDescriptor", lib.CanonicalizeMapID(mapID), nil)
	if s.Namespace != "" {
		key.Namespace = s.Namespace
	}
	return key
}

func (s *DatastoreStore) LoadMapDescriptor(ctx context.Context, mapID string) (lib.MapDescriptor, error) {
	canon := lib.CanonicalizeMapID(mapID)
	var entity mapDescriptorEntity
	if err := s.client.Get(ctx, s.key(canon), &entity); err != nil {
		return lib.MapDescriptor{}, fmt.Errorf("datastore store: %s: %w", canon, err)
	}

	var d lib.MapDescriptor
	if err := json.Unmarshal([]byte(entity.Descriptor), &d); err != nil {
		return lib.MapDescriptor{}, fmt.Errorf("datastore store: %s: malformed descriptor: %w", canon, err)
	}
	return d, nil
}

// PutMapDescriptor upserts a descriptor under its canonical map id.
func (s *DatastoreStore) PutMapDescriptor(ctx context.Context, d lib.MapDescriptor) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("datastore store: marshal %s: %w", d.MapID, err)
	}
	_, err = s.client.Put(ctx, s.key(d.MapID), &mapDescriptorEntity{Descriptor: string(body)})
	return err
}
