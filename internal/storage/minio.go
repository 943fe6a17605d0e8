package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"go-vtt-files/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioBackend stores blobs in a single bucket of an S3-compatible store.
type MinioBackend struct {
	client *minio.Client
	bucket string
	logger *zap.Logger

	mu    sync.Mutex
	ready bool
}

// NewMinioBackend builds the production backend from config. The bucket is not
// created here: connection problems at startup would otherwise take the whole
// service down, so creation is deferred to the first Put.
func NewMinioBackend(cfg *config.Config, logger *zap.Logger) (Backend, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinioBackend{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

func (b *MinioBackend) Exists(ctx context.Context, key string) bool {
	_, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	return err == nil
}

func (b *MinioBackend) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := b.ensureBucket(ctx); err != nil {
		return err
	}

	_, err := b.client.PutObject(ctx, b.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (b *MinioBackend) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (b *MinioBackend) Size(ctx context.Context, key string) int64 {
	info, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return 0
	}
	return info.Size
}

// ensureBucket creates the bucket on the first successful check. Failures are
// not cached, so a store that was unreachable at startup recovers on a later Put.
func (b *MinioBackend) ensureBucket(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready {
		return nil
	}

	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
		b.logger.Info("created storage bucket", zap.String("bucket", b.bucket))
	}
	b.ready = true
	return nil
}
