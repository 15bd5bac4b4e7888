// File: internal/storage/service.go
// Package storage provides the S3-compatible object store used for profile pictures.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"scholar_directory_backend/internal/common"
	"scholar_directory_backend/internal/config"
)

// ObjectInfo describes a stored object. Used by the orphan cleanup job.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Service defines the interface for object storage operations.
type Service interface {
	EnsureBucket(ctx context.Context) error
	// Upload stores data under key. When upsert is false and the key already
	// exists, it fails with common.ErrConflict.
	Upload(ctx context.Context, key string, data []byte, contentType string, upsert bool) error
	PresignGet(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object under the given prefix and returns
	// how many objects were deleted.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	ListPrefix(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// S3Service implements Service using the AWS S3 SDK v2. It is compatible
// with any S3-compatible storage (AWS S3, MinIO, etc.)
type S3Service struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	defaultTTL    time.Duration
	logger        *zap.Logger
}

var _ Service = (*S3Service)(nil)

// NewS3Service creates a new S3Service from application configuration.
func NewS3Service(cfg *config.Config, logger *zap.Logger) (*S3Service, error) {
	if cfg.StorageBucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.StorageAccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.StorageSecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.StorageEndpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.StorageUseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.StorageRegion
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			"", // session token (not used for static credentials)
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.StoragePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	ttl := cfg.SignedURLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	logger.Info("Object storage client initialized",
		zap.String("endpoint", endpoint),
		zap.String("bucket", cfg.StorageBucket),
	)

	return &S3Service{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.StorageBucket,
		defaultTTL:    ttl,
		logger:        logger.Named("storage"),
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup so first upload never races bucket creation.
func (s *S3Service) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Ignore "BucketAlreadyOwnedByYou" error (race condition)
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Storage bucket created successfully", zap.String("bucket", s.bucket))
	return nil
}

// Upload stores data under key.
func (s *S3Service) Upload(ctx context.Context, key string, data []byte, contentType string, upsert bool) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	if !upsert {
		exists, err := s.ObjectExists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrConflict.WithDetails("An object with this key already exists.")
		}
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	return nil
}

// PresignGet generates a presigned URL for downloading an object.
func (s *S3Service) PresignGet(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = s.defaultTTL
	}

	presignReq, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate download URL: %w", err)
	}

	expiresAt := time.Now().Add(expiresIn)
	return presignReq.URL, expiresAt, nil
}

// ObjectExists checks if an object exists in storage.
func (s *S3Service) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return false, nil
		}
		// Some S3-compatible services report not-found through the generic API error code.
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}

	return true, nil
}

// Delete deletes an object from storage.
func (s *S3Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// DeletePrefix removes every object under the given prefix.
func (s *S3Service) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if prefix == "" {
		return 0, errors.New("storage prefix is required")
	}

	objects, err := s.ListPrefix(ctx, prefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, obj := range objects {
		if err := s.Delete(ctx, obj.Key); err != nil {
			return deleted, err
		}
		deleted++
	}

	s.logger.Debug("Deleted objects under prefix",
		zap.String("prefix", prefix),
		zap.Int("count", deleted),
	)
	return deleted, nil
}

// ListPrefix lists all objects under the given prefix.
func (s *S3Service) ListPrefix(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			info := ObjectInfo{
				Key: aws.ToString(obj.Key),
			}
			if obj.Size != nil {
				info.Size = *obj.Size
			}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			objects = append(objects, info)
		}
	}

	return objects, nil
}
