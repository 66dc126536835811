// Package s3store stores product images in an S3-compatible bucket.
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/riderhub/riderhub-backend/pkg/config"
	pkgerrors "github.com/riderhub/riderhub-backend/pkg/errors"
	"github.com/riderhub/riderhub-backend/pkg/logger"
	"github.com/riderhub/riderhub-backend/pkg/storage"
)

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type objectAPI interface {
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, input *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Store implements storage.ImageStore on S3.
type Store struct {
	uploader  uploader
	objects   objectAPI
	bucket    string
	prefix    string
	publicURL string
	maxBytes  int64
	logg      *logger.Logger
}

var _ storage.ImageStore = (*Store)(nil)

// New builds a store from the storage config. Static credentials are used when
// set; otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newStore(manager.NewUploader(client), client, cfg, logg), nil
}

func newStore(up uploader, objects objectAPI, cfg config.StorageConfig, logg *logger.Logger) *Store {
	return &Store{
		uploader:  up,
		objects:   objects,
		bucket:    cfg.Bucket,
		prefix:    cfg.KeyPrefix,
		publicURL: cfg.PublicBaseURL,
		maxBytes:  cfg.MaxUploadBytes(),
		logg:      logg,
	}
}

// Upload validates the image and stores it under a fresh key.
func (s *Store) Upload(ctx context.Context, filename string, r io.Reader) (*storage.Asset, error) {
	img, err := storage.ReadImage(r, s.maxBytes)
	if err != nil {
		return nil, err
	}
	key := storage.NewKey(s.prefix, img.Extension)

	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "image upload failed")
	}

	url := out.Location
	if s.publicURL != "" {
		url = storage.JoinURL(s.publicURL, key)
	}

	if s.logg != nil {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"key": key, "bytes": len(img.Data)}), "image uploaded")
	}
	return &storage.Asset{
		URL:      url,
		PublicID: key,
		Format:   storage.Format(img.Extension),
		Bytes:    int64(len(img.Data)),
	}, nil
}

func (s *Store) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "public id is required")
	}
	_, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete image")
	}
	return nil
}

// Ping checks the bucket is reachable with the configured credentials.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.objects.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
