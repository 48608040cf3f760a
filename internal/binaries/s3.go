package binaries

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/s3fx"
)

const apkContentType = "application/vnd.android.package-archive"

// S3Store keeps binaries in an S3 compatible bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *S3Store) Save(ctx context.Context, applicationID, versionID uuid.UUID, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(applicationID, versionID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(apkContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload binary: %w", err)
	}

	return nil
}

func (s *S3Store) Open(ctx context.Context, applicationID, versionID uuid.UUID) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(applicationID, versionID)),
	})
	if s3fx.IsNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download binary: %w", err)
	}

	return result.Body, nil
}

func (s *S3Store) Delete(ctx context.Context, applicationID, versionID uuid.UUID) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(applicationID, versionID)),
	})
	if err != nil && !s3fx.IsNotFound(err) {
		return fmt.Errorf("failed to delete binary: %w", err)
	}

	return nil
}

func (s *S3Store) key(applicationID, versionID uuid.UUID) string {
	return s.prefix + objectName(applicationID, versionID)
}
