package service

import (
	"bytes"
	"context"

	"math_quest_backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectUploader 徽章元数据的对象存储
type ObjectUploader interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
}

// MinioUploader MinIO存储实现
type MinioUploader struct {
	Client *minio.Client
	Bucket string
}

func NewMinioUploader(cfg *config.BadgeMetadataConfig) (*MinioUploader, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioUploader{Client: client, Bucket: cfg.MinioBucket}, nil
}

// EnsureBucket 启动时创建桶
func (u *MinioUploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.Client.BucketExists(ctx, u.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return u.Client.MakeBucket(ctx, u.Bucket, minio.MakeBucketOptions{})
}

func (u *MinioUploader) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := u.Client.PutObject(ctx, u.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}
