//go:build !wasm
// +build !wasm

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pkmnav/navcore/lib"
)

// S3Store loads map descriptors as "<prefix>/<MAPID>.json" objects from an
// S3-compatible bucket (AWS S3, or an R2 bucket addressed through its S3
// endpoint).
type S3Store struct {
	Client *s3.Client
	Bucket string
	Prefix string
}

// S3Config configures an S3Store. Endpoint is optional; set it to target an
// S3-compatible provider (e.g. Cloudflare R2) instead of AWS proper.
type S3Config struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// OpenS3Store builds an S3Store from explicit credentials, or from the
// default AWS credential chain when AccessKeyID is empty.
func OpenS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 store: load config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{Client: client, Bucket: cfg.Bucket, Prefix: cfg.Prefix}, nil
}

// objectKey builds the bucket key for a canonical map id, guarding against
// path traversal the same way the source's filestore validatePath does —
// though mapIDs are already letters/digits only by construction, this stays
// defensive against a caller bypassing CanonicalizeMapID.
func (s *S3Store) objectKey(mapID string) (string, error) {
	canon := lib.CanonicalizeMapID(mapID)
	if canon == "" {
		return "", fmt.Errorf("s3 store: empty map id")
	}
	key := canon + ".json"
	if s.Prefix != "" {
		key = strings.TrimSuffix(s.Prefix, "/") + "/" + key
	}
	cleaned := filepath.Clean(key)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("s3 store: unsafe object key %q", key)
	}
	return key, nil
}

func (s *S3Store) LoadMapDescriptor(ctx context.Context, mapID string) (lib.MapDescriptor, error) {
	key, err := s.objectKey(mapID)
	if err != nil {
		return lib.MapDescriptor{}, err
	}

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return lib.MapDescriptor{}, fmt.Errorf("s3 store: get %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return lib.MapDescriptor{}, fmt.Errorf("s3 store: read %s: %w", key, err)
	}

	var d lib.MapDescriptor
	if err := json.Unmarshal(body, &d); err != nil {
		return lib.MapDescriptor{}, fmt.Errorf("s3 store: %s: malformed descriptor: %w", key, err)
	}
	return d, nil
}

// PutMapDescriptor uploads a descriptor, used by the offline map-extraction
// pipeline to seed the bucket.
func (s *S3Store) PutMapDescriptor(ctx context.Context, d lib.MapDescriptor) error {
	key, err := s.objectKey(d.MapID)
	if err != nil {
		return err
	}
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("s3 store: marshal %s: %w", d.MapID, err)
	}
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	return err
}
