package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage keeps every logical bucket as a key prefix in one S3 bucket.
type S3Storage struct {
	client     *s3.Client
	bucket     string
	region     string
	publicBase string
}

func NewS3Storage(ctx context.Context, bucket, region, publicBase string) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Storage{
		client:     s3.NewFromConfig(cfg),
		bucket:     bucket,
		region:     region,
		publicBase: publicBase,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, bucket, filename string, content io.Reader, contentType string) (string, error) {
	key, err := objectKey(bucket, filename)
	if err != nil {
		return "", err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"upload-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return s.URL(key), nil
}

func (s *S3Storage) Delete(ctx context.Context, bucket, filename string) error {
	key, err := objectKey(bucket, filename)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (s *S3Storage) Locate(url string) (string, string, bool) {
	return locate(url, s.URL)
}

// URL is the public address of key: under the configured base when set,
// the bucket's virtual-host URL otherwise.
func (s *S3Storage) URL(key string) string {
	if s.publicBase != "" && s.publicBase != "/uploads" {
		return joinURL(s.publicBase, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
