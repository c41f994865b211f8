package schemadoc

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Aleph-Alpha/schemasync/v1/observability"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore reads schema documents from the objects directly under a
// prefix of a MinIO/S3 bucket. Only the selected documents are downloaded.
type ObjectStore struct {
	client        *minio.Client
	cfg           ObjectConfig
	defaultFormat Format
	observer      observability.Observer
}

// NewObjectStore connects to the bucket described by cfg and checks that it
// exists.
func NewObjectStore(ctx context.Context, cfg ObjectConfig, defaultFormat Format) (*ObjectStore, error) {
	client, err := connectToMinio(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check schema bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: bucket %s does not exist", ErrNoLocalSchema, cfg.Bucket)
	}

	return &ObjectStore{
		client:        client,
		cfg:           cfg,
		defaultFormat: defaultFormat.Normalize(),
	}, nil
}

// WithObserver attaches an observer notified of every list and get.
func (s *ObjectStore) WithObserver(observer observability.Observer) *ObjectStore {
	s.observer = observer
	return s
}

// CurrentAuthoritative returns the object with the highest version.
func (s *ObjectStore) CurrentAuthoritative(ctx context.Context) (*Document, error) {
	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}
	return latest(ctx, s.where(), candidates, s.read, s.defaultFormat)
}

func (s *ObjectStore) List(ctx context.Context) ([]*Document, error) {
	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}
	return all(ctx, s.where(), candidates, s.read, s.defaultFormat)
}

func (s *ObjectStore) candidates(ctx context.Context) (out []candidate, err error) {
	start := time.Now()
	defer func() {
		s.observeOperation("list", s.cfg.Prefix, time.Since(start), err, 0, map[string]interface{}{
			"candidates": len(out),
		})
	}()

	prefix := s.prefix()
	for obj := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", s.where(), obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if c, ok := candidateOf(obj.Key); ok {
			out = append(out, c)
		}
	}
	return out, ctx.Err()
}

func (s *ObjectStore) read(ctx context.Context, key string) (data []byte, err error) {
	start := time.Now()
	defer func() {
		s.observeOperation("get", key, time.Since(start), err, int64(len(data)), nil)
	}()

	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = obj.Close()
	}()
	return io.ReadAll(obj)
}

func (s *ObjectStore) prefix() string {
	p := strings.TrimPrefix(s.cfg.Prefix, "/")
	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

func (s *ObjectStore) where() string {
	return fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, s.prefix())
}

// observeOperation reports to the observer with the bucket as resource and
// the prefix or object key as sub-resource.
func (s *ObjectStore) observeOperation(operation, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component:   "schemadoc",
		Operation:   operation,
		Resource:    s.cfg.Bucket,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}

func connectToMinio(cfg ObjectConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint cannot be empty")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is empty")
	}
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
}
