// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-kaya/internal/config"
	"github.com/MKhiriev/go-kaya/internal/logger"
	"github.com/MKhiriev/go-kaya/internal/utils"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3PutAPI is the subset of *s3.Client used by the blob store.
type s3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3BlobStore struct {
	client  s3PutAPI
	bucket  string
	baseURL string
	ids     *utils.UUIDGenerator
	now     func() time.Time
	logger  *logger.Logger
}

// NewS3BlobStore connects to an S3-compatible object store. A custom
// Endpoint (MinIO, R2, ...) switches the client to path-style addressing.
func NewS3BlobStore(ctx context.Context, cfg config.Blob, log *logger.Logger) (BlobStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3BlobStore(client, cfg.Bucket, s3PublicBaseURL(cfg), log), nil
}

func newS3BlobStore(client s3PutAPI, bucket, baseURL string, log *logger.Logger) *s3BlobStore {
	return &s3BlobStore{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
		ids:     utils.NewUUIDGenerator(),
		now:     time.Now,
		logger:  log,
	}
}

func (s *s3BlobStore) Store(ctx context.Context, data []byte, mimeType string) (string, error) {
	key := objectName(s.ids.Generate(), mimeType, s.now().UTC())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		s.logger.Err(err).Str("func", "s3BlobStore.Store").Str("key", key).Msg("put object failed")
		return "", fmt.Errorf("%w: put object: %w", ErrBlobStoreUnavailable, err)
	}

	return joinURL(s.baseURL, key), nil
}

// s3PublicBaseURL picks the prefix objects are reachable under.
func s3PublicBaseURL(cfg config.Blob) string {
	switch {
	case cfg.PublicBaseURL != "":
		return cfg.PublicBaseURL
	case cfg.Endpoint != "":
		return joinURL(cfg.Endpoint, cfg.Bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}
