package objectstore

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"livestream-backend/domain/model"
	"livestream-backend/domain/repository"
	"livestream-backend/infrastructure/configuration"
	"livestream-backend/infrastructure/logger"
)

// MinioStore is the S3-compatible blob store behind repository.IObjectStore.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the object storage endpoint and creates the
// bucket when it does not exist yet.
func NewMinioStore(ctx context.Context, cfg configuration.Storage) (repository.IObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, model.NewStorageError("could not initialise object storage client", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, model.NewStorageError("could not check storage bucket", err)
	}
	if !exists {
		logger.GetLogger().WithField("bucket", cfg.Bucket).Info("Storage bucket missing, creating it")
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, model.NewStorageError("could not create storage bucket", err)
		}
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, reader, size, opts); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "key": key}).Error("minio: put object failed")
		return model.NewStorageError("could not store file", err)
	}
	return nil
}

func (s *MinioStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"error": err, "key": key}).Error("minio: remove object failed")
		return model.NewStorageError("could not delete file", err)
	}
	return nil
}
