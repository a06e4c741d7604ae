// Package s3storage keeps attachments in a MinIO/S3 bucket and records only
// a reference on the submission document.
package s3storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/xn-coder/Project-Gateway/internal/config"
	"github.com/xn-coder/Project-Gateway/internal/files"
	"github.com/xn-coder/Project-Gateway/internal/model"
)

// Storage wraps MinIO/S3 interactions for submission attachments.
type Storage struct {
	client *minio.Client
	bucket string
	region string
	now    func() time.Time
}

var _ files.Backend = (*Storage)(nil)

// New creates a MinIO client from the Config.
func New(cfg *config.Config) (*Storage, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Storage{
		client: client,
		bucket: cfg.FilesBucket,
		region: cfg.S3Region,
		now:    time.Now,
	}, nil
}

// Name identifies the backend in logs and configuration.
func (s *Storage) Name() string { return "s3" }

// EnsureBucket makes sure the attachment bucket exists before use.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Put uploads the bytes under a fresh files.ObjectKey and returns an
// attachment pointing at the object.
func (s *Storage) Put(ctx context.Context, submissionID string, up model.Upload) (model.Attachment, error) {
	key := files.ObjectKey(submissionID, up.Name, s.now())
	opts := minio.PutObjectOptions{ContentType: up.Type}
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(up.Data), up.Size(), opts)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("upload object %s: %w", key, err)
	}
	return model.Attachment{
		Name: up.Name,
		Size: up.Size(),
		Type: up.Type,
		URL:  s.objectURL(key),
		Key:  key,
	}, nil
}

// Open streams the object behind an attachment.
func (s *Storage) Open(ctx context.Context, att model.Attachment) (io.ReadCloser, error) {
	if att.Key == "" {
		return nil, files.ErrWrongBackend
	}
	obj, err := s.client.GetObject(ctx, s.bucket, att.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", att.Key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before bytes are streamed.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("stat object %s: %w", att.Key, err)
	}
	return obj, nil
}

// Remove deletes the object behind an attachment.
func (s *Storage) Remove(ctx context.Context, att model.Attachment) error {
	if att.Key == "" {
		return files.ErrWrongBackend
	}
	if err := s.client.RemoveObject(ctx, s.bucket, att.Key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", att.Key, err)
	}
	return nil
}

func (s *Storage) objectURL(key string) string {
	base := strings.TrimRight(s.client.EndpointURL().String(), "/")
	return base + "/" + s.bucket + "/" + key
}
