// Command navserver is the navigation core's standalone service entry
// point: it selects a map store backend (local / postgres / s3 /
// datastore), then serves the core over both HTTP+JSON and gRPC until
// interrupted.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pkmnav/navcore/internal/transport/grpcnav"
	"github.com/pkmnav/navcore/internal/transport/httpnav"
	"github.com/pkmnav/navcore/lib"
	"github.com/pkmnav/navcore/lib/store"
)

var (
	httpAddress = flag.String("http_address", "", "HTTP listen address. Env: NAVCORE_HTTP_ADDR. Default ':8080'")
	grpcAddress = flag.String("grpc_address", "", "gRPC listen address. Env: NAVCORE_GRPC_ADDR. Default ':9090'")
	mapStoreBE  = flag.String("map_store", "", "Map store backend: local, postgres, s3, datastore. Env: NAVCORE_MAP_STORE. Default 'local'")
	mapsDir     = flag.String("maps_dir", "", "Directory of map descriptor JSON files, for map_store=local. Env: NAVCORE_MAPS_DIR")
	dbEndpoint  = flag.String("db_endpoint", "", "postgres://... connection string, for map_store=postgres. Env: NAVCORE_DB_ENDPOINT")
	s3Bucket    = flag.String("s3_bucket", "", "Bucket name, for map_store=s3. Env: NAVCORE_S3_BUCKET")
	s3Prefix    = flag.String("s3_prefix", "maps", "Key prefix within the bucket, for map_store=s3")
	s3Endpoint  = flag.String("s3_endpoint", "", "Custom S3-compatible endpoint (e.g. R2). Env: NAVCORE_S3_ENDPOINT")
	gcpProject  = flag.String("gcp_project", "", "GCP project ID, for map_store=datastore. Env: NAVCORE_GCP_PROJECT")
)

func getConfig(flagValue *string, envVar, defaultValue string) string {
	if flagValue != nil && *flagValue != "" {
		return *flagValue
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	_ = godotenv.Load()
	flag.Parse()

	loader, err := buildLoader()
	if err != nil {
		log.Fatalf("navserver: %v", err)
	}

	router := lib.NewRegionRouter(lib.NewMapStore(loader))

	httpAddr := getConfig(httpAddress, "NAVCORE_HTTP_ADDR", ":8080")
	grpcAddr := getConfig(grpcAddress, "NAVCORE_GRPC_ADDR", ":9090")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srvErr := make(chan error, 2)

	httpSrv := httpnav.NewServer(httpAddr, router)
	if err := httpSrv.Start(ctx, srvErr); err != nil {
		log.Fatalf("navserver: http start: %v", err)
	}

	grpcSrv := grpcnav.NewServer(grpcAddr, router)
	shutdownCh := make(chan bool)
	if err := grpcSrv.Start(ctx, srvErr, shutdownCh); err != nil {
		log.Fatalf("navserver: grpc start: %v", err)
	}

	select {
	case <-ctx.Done():
		slog.Info("navserver shutting down")
	case err := <-srvErr:
		close(shutdownCh)
		log.Fatalf("navserver: server error: %v", err)
	}
	close(shutdownCh)
}

func buildLoader() (lib.MapLoader, error) {
	be := getConfig(mapStoreBE, "NAVCORE_MAP_STORE", "local")
	slog.Info("navserver selecting map store", "backend", be)

	switch be {
	case "local":
		dir := getConfig(mapsDir, "NAVCORE_MAPS_DIR", "./maps")
		return store.NewLocalStore(dir), nil

	case "postgres":
		endpoint := getConfig(dbEndpoint, "NAVCORE_DB_ENDPOINT", "")
		return store.OpenPostgresStore(endpoint)

	case "s3":
		cfg := store.S3Config{
			Bucket:          getConfig(s3Bucket, "NAVCORE_S3_BUCKET", ""),
			Prefix:          getConfig(s3Prefix, "NAVCORE_S3_PREFIX", "maps"),
			Region:          os.Getenv("NAVCORE_S3_REGION"),
			Endpoint:        getConfig(s3Endpoint, "NAVCORE_S3_ENDPOINT", ""),
			AccessKeyID:     os.Getenv("NAVCORE_S3_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("NAVCORE_S3_SECRET_ACCESS_KEY"),
		}
		return store.OpenS3Store(context.Background(), cfg)

	case "datastore":
		cfg := store.DatastoreConfig{
			ProjectID: getConfig(gcpProject, "NAVCORE_GCP_PROJECT", ""),
			Namespace: os.Getenv("NAVCORE_GCP_NAMESPACE"),
		}
		return store.OpenDatastoreStore(context.Background(), cfg)

	default:
		log.Fatalf("navserver: unknown map_store backend %q", be)
		return nil, nil
	}
}
