package schemadoc

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/schemasync/v1/observability"
	"github.com/spf13/afero"
)

// Store backends selectable through Config.Source.
const (
	SourceDir    = "dir"
	SourceObject = "s3"
)

// DefaultDir is where schemas live relative to the working directory.
const DefaultDir = "schemas"

// Config selects and configures the schema document store.
type Config struct {
	// Source is "dir" (default) or "s3".
	Source string `yaml:"source" envconfig:"SCHEMA_SOURCE"`

	// Dir is the directory holding versioned documents for the dir source.
	Dir string `yaml:"dir" envconfig:"SCHEMA_DIR"`

	// DefaultFormat applies to plain ".json" documents. Empty means AVRO.
	DefaultFormat Format `yaml:"default_format" envconfig:"SCHEMA_DEFAULT_FORMAT"`

	Object ObjectConfig `yaml:"object"`
}

// ObjectConfig locates documents in a MinIO/S3 bucket.
type ObjectConfig struct {
	Endpoint        string `yaml:"endpoint" envconfig:"SCHEMA_S3_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" envconfig:"SCHEMA_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"SCHEMA_S3_SECRET_ACCESS_KEY"`
	UseSSL          bool   `yaml:"use_ssl" envconfig:"SCHEMA_S3_USE_SSL"`
	Region          string `yaml:"region" envconfig:"SCHEMA_S3_REGION"`
	Bucket          string `yaml:"bucket" envconfig:"SCHEMA_S3_BUCKET"`

	// Prefix is the "directory" inside the bucket, e.g. "customer_events/".
	Prefix string `yaml:"prefix" envconfig:"SCHEMA_S3_PREFIX"`
}

// NewFromConfig builds the store selected by cfg.Source. fsys backs the dir
// source; nil means the OS filesystem.
func NewFromConfig(ctx context.Context, cfg Config, fsys afero.Fs, observer observability.Observer) (Store, error) {
	switch strings.ToLower(cfg.Source) {
	case "", SourceDir, "fs":
		dir := cfg.Dir
		if dir == "" {
			dir = DefaultDir
		}
		return NewDirStore(fsys, dir, cfg.DefaultFormat), nil
	case SourceObject, "minio":
		s, err := NewObjectStore(ctx, cfg.Object, cfg.DefaultFormat)
		if err != nil {
			return nil, err
		}
		return s.WithObserver(observer), nil
	default:
		return nil, fmt.Errorf("unsupported schema source %q", cfg.Source)
	}
}
