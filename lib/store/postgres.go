package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pkmnav/navcore/lib"
)

const tracerName = "github.com/pkmnav/navcore/lib/store"

var (
	tracer = otel.Tracer(tracerName)
	logger = otelslog.NewLogger(tracerName)
)

// MapRecordGORM is the Postgres-backed row for one map descriptor. The
// descriptor itself is stored as a JSON blob rather than normalized columns
// — map descriptors are produced once by an offline extraction pipeline and
// read wholesale, never queried by field, so there is nothing to gain from
// a wider schema.
type MapRecordGORM struct {
	MapID      string `gorm:"primaryKey;column:map_id"`
	Descriptor string `gorm:"column:descriptor;type:jsonb"`
}

func (MapRecordGORM) TableName() string { return "map_descriptors" }

// PostgresStore loads map descriptors from a Postgres table via GORM.
type PostgresStore struct {
	db *gorm.DB
}

// OpenPostgresStore connects to dbEndpoint (a postgres:// URL) and ensures
// the backing table exists, mirroring the source's OpenDB/AutoMigrate
// pattern.
func OpenPostgresStore(dbEndpoint string) (*PostgresStore, error) {
	if !strings.HasPrefix(dbEndpoint, "postgres://") {
		return nil, fmt.Errorf("postgres store: endpoint must start with postgres://, got %q", dbEndpoint)
	}
	log.Println("navcore: connecting to map descriptor DB:", dbEndpoint)
	db, err := gorm.Open(postgres.Open(dbEndpoint), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres store: connect: %w", err)
	}
	if err := db.AutoMigrate(&MapRecordGORM{}); err != nil {
		return nil, fmt.Errorf("postgres store: migrate: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStore wraps an already-open *gorm.DB, for callers that manage
// their own connection pool.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LoadMapDescriptor(ctx context.Context, mapID string) (lib.MapDescriptor, error) {
	_, span := tracer.Start(ctx, "PostgresStore.LoadMapDescriptor")
	defer span.End()

	canon := lib.CanonicalizeMapID(mapID)
	var rec MapRecordGORM
	err := s.db.WithContext(ctx).First(&rec, "map_id = ?", canon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lib.MapDescriptor{}, fmt.Errorf("postgres store: %s: not found", canon)
		}
		return lib.MapDescriptor{}, fmt.Errorf("postgres store: %s: %w", canon, err)
	}

	var d lib.MapDescriptor
	if err := json.Unmarshal([]byte(rec.Descriptor), &d); err != nil {
		return lib.MapDescriptor{}, fmt.Errorf("postgres store: %s: malformed descriptor: %w", canon, err)
	}
	logger.Info("loaded map descriptor from postgres", "map_id", canon)
	return d, nil
}

// PutMapDescriptor upserts a descriptor, used by the offline map-extraction
// pipeline to seed the store.
func (s *PostgresStore) PutMapDescriptor(ctx context.Context, d lib.MapDescriptor) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("postgres store: marshal %s: %w", d.MapID, err)
	}
	rec := MapRecordGORM{MapID: lib.CanonicalizeMapID(d.MapID), Descriptor: string(body)}
	return s.db.WithContext(ctx).Save(&rec).Error
}
