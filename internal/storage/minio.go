package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"brgydocs/internal/config"
)

// minioStorage implements QRCodeStore on MinIO or any S3-compatible backend.
// It is safe for concurrent use.
type minioStorage struct {
	client *minio.Client
	bucket string
}

func validate(cfg config.MinIOConfig) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("minio bucket is required")
	}
	return nil
}

// NewMinIO connects to the backend and creates the bucket when it is missing.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig, log *zap.Logger) (QRCodeStore, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	tr, err := minio.DefaultTransport(cfg.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("create minio transport: %w", err)
	}
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: otelhttp.NewTransport(tr),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		if log != nil {
			log.Info("storage_bucket_created", zap.String("bucket", cfg.Bucket))
		}
	}

	return &minioStorage{client: cli, bucket: cfg.Bucket}, nil
}

func (m *minioStorage) SaveQRCode(ctx context.Context, requestID int64, png []byte) (Artifact, error) {
	key := QRCodeKey(requestID)
	info, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(png), int64(len(png)), minio.PutObjectOptions{
		ContentType:  "image/png",
		CacheControl: "no-store",
		UserMetadata: map[string]string{"document-request-id": strconv.FormatInt(requestID, 10)},
	})
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Key: key, Size: info.Size, ETag: info.ETag}, nil
}

func (m *minioStorage) QRCodeURL(ctx context.Context, requestID int64, expiry time.Duration) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("inline; filename=%q", fmt.Sprintf("request-%d-qr.png", requestID)))
	u, err := m.client.PresignedGetObject(ctx, m.bucket, QRCodeKey(requestID), expiry, params)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
