// Package publish uploads rendered images to S3-compatible object storage.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 10 * time.Second

// Uploader puts encoded images into a bucket
type Uploader struct {
	client s3iface.S3API
	bucket string
	prefix string
	acl    string
	logger core.Logger
}

// NewUploader creates an uploader backed by a real S3 session
func NewUploader(cfg config.S3Config, logger core.Logger) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3 bucket is not configured")
	}

	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewUploaderWithClient(s3.New(sess), cfg, logger), nil
}

// NewUploaderWithClient creates an uploader around an existing client
func NewUploaderWithClient(client s3iface.S3API, cfg config.S3Config, logger core.Logger) *Uploader {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		acl:    cfg.ACL,
		logger: logger,
	}
}

// Key returns the object key for a render of sceneName saved as filename
func (u *Uploader) Key(sceneName, filename string) string {
	return path.Join(u.prefix, sceneName, path.Base(filename))
}

// Upload stores data under key
func (u *Uploader) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	}
	if u.acl != "" {
		input.ACL = aws.String(u.acl)
	}

	if _, err := u.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	u.logger.Printf("Uploaded s3://%s/%s (%d bytes)\n", u.bucket, key, len(data))
	return nil
}
