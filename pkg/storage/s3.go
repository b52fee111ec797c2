// Package storage provides the asset store backing avatar and cover image
// uploads. It targets any S3-compatible service (AWS S3, MinIO, DigitalOcean
// Spaces, Cloudflare R2) and fronts every call with a circuit breaker so a
// dead media host fails fast instead of stalling requests.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/streampulse/account-service/config"
	"github.com/streampulse/account-service/pkg/circuit"
	"github.com/streampulse/account-service/pkg/logger"
)

const (
	uploadTimeout = 30 * time.Second
	deleteTimeout = 10 * time.Second
)

// S3Store stores uploaded assets in an S3-compatible bucket and serves
// them by public URL.
type S3Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
	breaker    *circuit.Breaker
}

// NewS3Store creates an asset store from app config. The bucket is created
// when it does not exist yet, so a fresh MinIO instance works out of the box.
func NewS3Store(cfg *config.StorageConfig) (*S3Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing is required by MinIO and most
			// self-hosted S3 compatibles.
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	store := &S3Store{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: publicBase(cfg),
		breaker:    circuit.NewBreaker("asset-store", circuit.DefaultConfig(), logger.GetLogger()),
	}

	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// publicBase resolves the base URL that uploaded objects are served from.
func publicBase(cfg *config.StorageConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", s.bucket, err)
	}

	logger.InfoWithContext(ctx, "Created asset bucket").
		String("bucket", s.bucket).
		Log()
	return nil
}

// Upload stores the object under key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	err := s.breaker.Execute(func() error {
		_, putErr := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          body,
			ContentLength: aws.Int64(size),
			ContentType:   aws.String(contentType),
		})
		return putErr
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Asset upload failed").
			String("bucket", s.bucket).
			String("key", key).
			Err(err).
			Log()
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	url := s.publicBase + "/" + key
	logger.InfoWithContext(ctx, "Asset uploaded").
		String("key", key).
		String("url", url).
		Int64("size", size).
		Log()
	return url, nil
}

// Delete removes a previously uploaded asset identified by its public URL.
// URLs that do not belong to this store are ignored.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, s.publicBase+"/")
	if key == "" || key == url {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	err := s.breaker.Execute(func() error {
		_, delErr := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		return delErr
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Asset delete failed").
			String("key", key).
			Err(err).
			Log()
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	return nil
}
