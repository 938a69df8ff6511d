package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hariomtransport/books/config"
)

var ErrR2Disabled = errors.New("document upload is not configured")

// objectStore is the part of the S3 client the uploader uses.
type objectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// R2Uploader stores generated documents in a Cloudflare R2 bucket through
// its S3 compatible API.
type R2Uploader struct {
	client     objectStore
	bucket     string
	publicBase string
}

func NewR2Uploader(ctx context.Context, cfg config.R2Config) (*R2Uploader, error) {
	if !cfg.Enabled() {
		return nil, ErrR2Disabled
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"), // Important for R2
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	publicBase := cfg.PublicURL
	if publicBase == "" {
		publicBase = endpoint + "/" + cfg.Bucket
	}
	return newR2Uploader(client, cfg.Bucket, publicBase), nil
}

func newR2Uploader(client objectStore, bucket, publicBase string) *R2Uploader {
	return &R2Uploader{client: client, bucket: bucket, publicBase: strings.TrimRight(publicBase, "/")}
}

// Upload stores the file under its base name and returns its public URL.
func (u *R2Uploader) Upload(ctx context.Context, fileBytes []byte, filename, contentType string) (string, error) {
	key := path.Base(filename)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(fileBytes),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return u.publicBase + "/" + url.PathEscape(key), nil
}

// Delete removes the object a public URL points to.
func (u *R2Uploader) Delete(ctx context.Context, fileURL string) error {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return fmt.Errorf("invalid file URL: %w", err)
	}
	key := path.Base(parsed.Path)

	_, err = u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete R2 object: %w", err)
	}
	return nil
}
