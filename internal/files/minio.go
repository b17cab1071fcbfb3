package files

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const s3Scheme = "s3://"

// IsS3Target reports whether target names an S3 bucket rather than a
// directory.
func IsS3Target(target string) bool {
	return strings.HasPrefix(target, s3Scheme)
}

// ParseS3Target splits s3://bucket/prefix into bucket and prefix.
func ParseS3Target(target string) (bucket, prefix string, err error) {
	if !IsS3Target(target) {
		return "", "", fmt.Errorf("not an s3 target: %q", target)
	}
	rest := strings.TrimPrefix(target, s3Scheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("s3 target %q has no bucket", target)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// MinioMirror mirrors into an S3-compatible bucket.
type MinioMirror struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioMirror connects to endpoint and ensures the target bucket exists.
func NewMinioMirror(ctx context.Context, endpoint, accessKey, secretKey string, useSSL bool, target string) (*MinioMirror, error) {
	bucket, prefix, err := ParseS3Target(target)
	if err != nil {
		return nil, err
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioMirror{client: client, bucket: bucket, prefix: prefix}, nil
}

func (m *MinioMirror) key(rel string) string {
	if m.prefix == "" {
		return rel
	}
	return path.Join(m.prefix, rel)
}

func (m *MinioMirror) Put(ctx context.Context, rel string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, m.key(rel), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType(rel)})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func (m *MinioMirror) Exists(ctx context.Context, rel string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, m.key(rel), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, fmt.Errorf("stat object: %w", err)
}

func (m *MinioMirror) Remove(ctx context.Context, rel string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, m.key(rel), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// Rename copies the object server-side and removes the source.
func (m *MinioMirror) Rename(ctx context.Context, from, to string) error {
	_, err := m.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: m.bucket, Object: m.key(to)},
		minio.CopySrcOptions{Bucket: m.bucket, Object: m.key(from)})
	if err != nil {
		return fmt.Errorf("copy object: %w", err)
	}
	return m.Remove(ctx, from)
}

func (m *MinioMirror) List(ctx context.Context, subdir, prefix string) ([]string, error) {
	var names []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix: m.key(subdir) + "/" + prefix,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		names = append(names, path.Base(obj.Key))
	}
	return names, nil
}

func (m *MinioMirror) Describe() string {
	if m.prefix == "" {
		return s3Scheme + m.bucket
	}
	return s3Scheme + m.bucket + "/" + m.prefix
}

func contentType(rel string) string {
	switch path.Ext(rel) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}
