package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/diillson/escola-artifacts-go/internal/domain/repository"
	"github.com/diillson/escola-artifacts-go/internal/shared/types"
	"github.com/google/uuid"
)

var _ repository.ArtifactStore = (*S3Store)(nil)

// S3Client is the subset of the S3 API the store needs.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads artifacts to a bucket.
type S3Store struct {
	client S3Client
	bucket string
	prefix string
	now    func() time.Time
	newID  func() string
}

type S3Option func(*S3Store)

// WithS3Client replaces the SDK client, mainly for tests.
func WithS3Client(client S3Client) S3Option {
	return func(s *S3Store) { s.client = client }
}

// NewS3Store loads the AWS configuration for cfg.Region. Static credentials
// in cfg take precedence over the default chain.
func NewS3Store(ctx context.Context, cfg types.StorageConfig, opts ...S3Option) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket is required", types.ErrStorage)
	}

	store := &S3Store{
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.client != nil {
		return store, nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	store.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return store, nil
}

// Save uploads blob under <prefix>/YYYY/MM/DD/<uuid>-<filename> and returns
// its s3:// URI.
func (s *S3Store) Save(ctx context.Context, filename, mimeType string, blob []byte) (string, error) {
	key := s.objectKey(filename)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(blob),
		ContentLength: aws.Int64(int64(len(blob))),
	}
	if mimeType != "" {
		input.ContentType = aws.String(mimeType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", classifyS3Error(err, "put")
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *S3Store) objectKey(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = "artifact"
	}
	key := path.Join(s.now().UTC().Format("2006/01/02"), s.newID()+"-"+name)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	return key
}

// classifyS3Error maps SDK failures onto ErrStorage, keeping context errors
// recognizable for callers.
func classifyS3Error(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: s3 %s: %w", types.ErrStorage, operation, err)
	}

	var nsb *s3types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: s3 %s: bucket does not exist", types.ErrStorage, operation)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return fmt.Errorf("%w: s3 %s: access denied", types.ErrStorage, operation)
		case "NoSuchBucket":
			return fmt.Errorf("%w: s3 %s: bucket does not exist", types.ErrStorage, operation)
		default:
			return fmt.Errorf("%w: s3 %s failed (code: %s): %v", types.ErrStorage, operation, apiErr.ErrorCode(), err)
		}
	}
	return fmt.Errorf("%w: s3 %s failed: %v", types.ErrStorage, operation, err)
}
