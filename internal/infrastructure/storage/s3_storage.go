// Package storage provides asset.Storage implementations.
package storage

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/catalogue/backend/internal/domain/asset"
	infraconfig "github.com/catalogue/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ asset.Storage = (*S3Storage)(nil)

// S3Storage keeps assets in an S3-compatible bucket (AWS S3, MinIO, RustFS).
// The object key doubles as the asset ref; objects are read publicly under
// publicBaseURL.
type S3Storage struct {
	client        *s3.Client
	bucket        string
	keyPrefix     string
	publicBaseURL string
	logger        *zap.Logger
}

// S3StorageOption configures an S3Storage
type S3StorageOption func(*S3Storage)

func WithLogger(logger *zap.Logger) S3StorageOption {
	return func(s *S3Storage) {
		s.logger = logger
	}
}

// NewS3Storage builds a client for cfg. Without an endpoint it talks to AWS
// in cfg.Region.
func NewS3Storage(cfg *infraconfig.StorageConfig, opts ...S3StorageOption) (*S3Storage, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("storage configuration is required")
	case cfg.Bucket == "":
		return nil, errors.New("storage bucket is required")
	case cfg.AccessKeyID == "":
		return nil, errors.New("storage access key is required")
	case cfg.SecretAccessKey == "":
		return nil, errors.New("storage secret key is required")
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	region := cmp.Or(cfg.Region, "us-east-1")

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s := &S3Storage{
		client: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.UsePathStyle
			if endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}),
		bucket:        cfg.Bucket,
		keyPrefix:     strings.Trim(cfg.KeyPrefix, "/"),
		publicBaseURL: publicBase(cfg, endpoint, region),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// normalizeEndpoint defaults a bare host:port to https
func normalizeEndpoint(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	if _, err := url.Parse(raw); err != nil {
		return "", fmt.Errorf("invalid storage endpoint %q: %w", raw, err)
	}
	return raw, nil
}

// publicBase picks the URL prefix for stored objects: the configured one,
// else path style on the custom endpoint, else the AWS virtual host
func publicBase(cfg *infraconfig.StorageConfig, endpoint, region string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case endpoint != "":
		return strings.TrimRight(endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}
}

// missing reports whether err is S3's answer for an absent key or bucket.
// S3-compatible servers disagree on codes, so a bare 404 counts too.
func missing(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return true
		}
	}
	var respErr *awshttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}

// EnsureBucket creates the bucket when it does not exist yet. Run it once
// at startup.
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	switch {
	case err == nil:
		return nil
	case !missing(err):
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	s.logger.Info("creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "BucketAlreadyOwnedByYou" {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Store uploads f under a fresh key and returns its public URL and ref
func (s *S3Storage) Store(ctx context.Context, f asset.File) (asset.Asset, error) {
	if f.Content == nil {
		return asset.Asset{}, errors.New("file content is required")
	}
	body, size, err := seekable(f.Content)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("read upload %s: %w", f.Name, err)
	}

	key := objectKey(s.keyPrefix, f.Name)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if f.ContentType != "" {
		input.ContentType = aws.String(f.ContentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return asset.Asset{}, fmt.Errorf("upload %s: %w", key, err)
	}

	s.logger.Debug("asset stored", zap.String("ref", key), zap.Int64("bytes", size))
	return asset.Asset{URL: s.publicBaseURL + "/" + key, Ref: key}, nil
}

// seekable returns r as a ReadSeeker with its remaining length. The SDK
// signs the payload, so non-seekable readers are buffered.
func seekable(r io.Reader) (io.ReadSeeker, int64, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		start, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, err
		}
		end, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, err
		}
		if _, err := rs.Seek(start, io.SeekStart); err != nil {
			return nil, 0, err
		}
		return rs, end - start, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}

// Delete removes the object behind ref. S3 deletes succeed for absent keys,
// so the object is probed first to report asset.ErrObjectNotFound.
func (s *S3Storage) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return errors.New("asset ref is required")
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	switch {
	case missing(err):
		return asset.ErrObjectNotFound
	case err != nil:
		return fmt.Errorf("head %s: %w", ref, err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	}); err != nil {
		return fmt.Errorf("delete %s: %w", ref, err)
	}
	return nil
}

func (s *S3Storage) Bucket() string {
	return s.bucket
}

// objectKey builds "<prefix>/<uuid><ext>", keeping the lowercased extension
func objectKey(prefix, name string) string {
	key := uuid.NewString() + strings.ToLower(path.Ext(name))
	if prefix != "" {
		key = prefix + "/" + key
	}
	return key
}
