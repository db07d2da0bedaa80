// Package storage archives rendered invoices in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/freelanceos/backend/internal/core/ports"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // set for MinIO or other S3-compatible services
	AccessKeyID     string
	SecretAccessKey string
}

// uploader is the subset of manager.Uploader used here.
type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Archive stores invoice PDFs under invoices/<owner>/<uuid>-<filename>.
type S3Archive struct {
	bucket   string
	uploader uploader
	newID    func() string
}

var _ ports.InvoiceArchive = (*S3Archive)(nil)

// NewS3Archive loads the default AWS credential chain unless static keys are
// configured.
func NewS3Archive(ctx context.Context, cfg Config) (*S3Archive, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Archive{
		bucket:   cfg.Bucket,
		uploader: manager.NewUploader(client),
		newID:    func() string { return uuid.NewString() },
	}, nil
}

func (a *S3Archive) Put(ctx context.Context, ownerID, filename string, pdf []byte) (string, error) {
	key := a.objectKey(ownerID, filename)
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
		Metadata: map[string]string{
			"owner-id":          ownerID,
			"original-filename": filename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", key, err)
	}
	return key, nil
}

func (a *S3Archive) objectKey(ownerID, filename string) string {
	name := unsafeKeyChars.ReplaceAllString(path.Base(filename), "_")
	if name == "" || name == "." || name == "/" {
		name = "invoice.pdf"
	}
	owner := unsafeKeyChars.ReplaceAllString(ownerID, "_")
	if owner == "" || owner == "." || owner == ".." {
		owner = "_"
	}
	return path.Join("invoices", owner, a.newID()+"-"+name)
}
