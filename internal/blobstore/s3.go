package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"docflow/internal/config"
	"docflow/internal/docflow"
)

// S3Store keeps blobs in one S3 (or MinIO) bucket under
// <prefix>/<bucket>/<blobID>.
type S3Store struct {
	client    *s3.Client
	uploader  *manager.Uploader
	presigner *s3.PresignClient
	bucket    string
	prefix    string
	publicURL *url.URL
}

var (
	_ docflow.BlobStore    = (*S3Store)(nil)
	_ docflow.URLPresigner = (*S3Store)(nil)
)

// NewS3Store builds an S3Store. Static credentials from cfg take precedence
// over the default AWS credential chain.
func NewS3Store(ctx context.Context, cfg config.BlobStoreConfig) (*S3Store, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 blob store requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	store := &S3Store{
		client:    client,
		uploader:  manager.NewUploader(client),
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.S3Bucket,
		prefix:    cfg.S3Prefix,
	}
	if cfg.S3PublicURL != "" {
		u, err := url.Parse(cfg.S3PublicURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid s3_public_url %q", cfg.S3PublicURL)
		}
		store.publicURL = u
	}
	return store, nil
}

func (s *S3Store) key(bucket, blobID string) string {
	return path.Join(s.prefix, bucket, blobID)
}

func (s *S3Store) Save(ctx context.Context, bucket string, r io.Reader, size int64, contentType, filename string) (string, error) {
	blobID := NewBlobID(filename)
	if err := validateKey(bucket, blobID); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(bucket, blobID)),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", blobID, err)
	}
	return blobID, nil
}

func (s *S3Store) Load(ctx context.Context, bucket, blobID string) (io.ReadCloser, error) {
	if err := validateKey(bucket, blobID); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(bucket, blobID)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, blobID)
		}
		return nil, fmt.Errorf("downloading %s: %w", blobID, err)
	}
	return out.Body, nil
}

// Delete removes an object. S3 deletes are idempotent.
func (s *S3Store) Delete(ctx context.Context, bucket, blobID string) error {
	if err := validateKey(bucket, blobID); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(bucket, blobID)),
	})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", blobID, err)
	}
	return nil
}

// PresignGet returns a GET URL valid for ttl. With s3_public_url set, the
// scheme and host are replaced so clients outside the storage network can
// reach it.
func (s *S3Store) PresignGet(ctx context.Context, bucket, blobID string, ttl time.Duration) (string, error) {
	if err := validateKey(bucket, blobID); err != nil {
		return "", err
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(bucket, blobID)),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presigning %s: %w", blobID, err)
	}
	if s.publicURL == nil {
		return req.URL, nil
	}

	signed, err := url.Parse(req.URL)
	if err != nil {
		return "", fmt.Errorf("parsing presigned url: %w", err)
	}
	signed.Scheme = s.publicURL.Scheme
	signed.Host = s.publicURL.Host
	signed.User = s.publicURL.User
	return signed.String(), nil
}
