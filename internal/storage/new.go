package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nguyentantai21042004/dialog-digest/internal/config"
	"github.com/nguyentantai21042004/dialog-digest/internal/logger"
)

// s3API is the subset of the S3 client the store uses.
type s3API interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

type implStorage struct {
	client s3API
	bucket string
	logger logger.Logger
}

// New creates an S3-backed Storage for cfg.Bucket.
func New(ctx context.Context, cfg config.AWSConfig, log logger.Logger) (Storage, error) {
	awsCfg, err := cfg.SDKConfig(ctx)
	if err != nil {
		return nil, err
	}

	var opts []func(*awss3.Options)
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else if cfg.ForcePathStyle {
		opts = append(opts, func(o *awss3.Options) {
			o.UsePathStyle = true
		})
	}

	return newWithClient(awss3.NewFromConfig(awsCfg, opts...), cfg.Bucket, log), nil
}

func newWithClient(client s3API, bucket string, log logger.Logger) *implStorage {
	return &implStorage{
		client: client,
		bucket: bucket,
		logger: log,
	}
}
