package repository

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	appconfig "github.com/roy777rajat/my-photo-app/internal/config"
)

// ObjectRepository is the blob half of the photo store: binary payloads
// addressed by key, displayable through a public URL.
type ObjectRepository interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Ping(ctx context.Context) error
}

type s3Repository struct {
	client *s3.Client
	cfg    *appconfig.AWSConfig
	log    *zap.Logger
}

func NewAWSConfig(ctx context.Context, cfg *appconfig.AWSConfig) (aws.Config, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
				Source:            aws.EndpointSourceCustom,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, classifyAWSError(err)
	}
	return awsCfg, nil
}

func NewS3Repository(awsCfg aws.Config, cfg *appconfig.AWSConfig, log *zap.Logger) ObjectRepository {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	return &s3Repository{
		client: client,
		cfg:    cfg,
		log:    log,
	}
}

// Ping verifies the bucket is reachable with the current credentials.
func (r *s3Repository) Ping(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(r.cfg.BucketName),
	})
	if err != nil {
		return classifyAWSError(err)
	}
	return nil
}

// Upload stores the payload under key and returns the public display URL.
func (r *s3Repository) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.cfg.BucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})

	if err != nil {
		r.log.Error("Failed to upload object to S3",
			zap.String("key", key),
			zap.Error(err))
		return "", classifyAWSError(err)
	}

	url := r.publicURL(key)

	r.log.Info("Object uploaded to S3",
		zap.String("key", key),
		zap.Int64("size", size))

	return url, nil
}

func (r *s3Repository) Download(ctx context.Context, key string) ([]byte, error) {
	output, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.cfg.BucketName),
		Key:    aws.String(key),
	})

	if err != nil {
		r.log.Error("Failed to download object from S3",
			zap.String("key", key),
			zap.Error(err))
		return nil, classifyAWSError(err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	return data, nil
}

// publicURL assumes a public-read bucket; no pre-signing is done.
func (r *s3Repository) publicURL(key string) string {
	if r.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", r.cfg.Endpoint, r.cfg.BucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", r.cfg.BucketName, r.cfg.Region, key)
}
