package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps avatars in a bucket under the avatars/ prefix.
type MinioStore struct {
	client     *minio.Client
	bucketName string
}

// NewMinioStore connects to the endpoint and creates the bucket if needed.
func NewMinioStore(ctx context.Context, endpoint, accessKeyID, secretAccessKey string, useSSL bool, bucketName string) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucketName, err)
		}
	}

	return &MinioStore{client: client, bucketName: bucketName}, nil
}

func objectKey(name string) string {
	return avatarPrefix + "/" + name
}

func (s *MinioStore) Save(ctx context.Context, name string, data []byte) error {
	if !ValidName(name) {
		return ErrNotFound
	}
	_, err := s.client.PutObject(ctx,
		s.bucketName,
		objectKey(name),
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: AvatarContentType},
	)
	return err
}

func (s *MinioStore) Open(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	if !ValidName(name) {
		return nil, 0, ErrNotFound
	}

	obj, err := s.client.GetObject(ctx, s.bucketName, objectKey(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}

	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return obj, info.Size, nil
}

func (s *MinioStore) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucketName, objectKey(name), minio.RemoveObjectOptions{})
}
