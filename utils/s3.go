package utils

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// PutObjectAPI is the part of the S3 client the uploader uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageUploader stores meal photos in S3 and serves them through CloudFront.
type ImageUploader struct {
	client  PutObjectAPI
	bucket  string
	baseURL string
	now     func() time.Time
}

func NewImageUploader(ctx context.Context, region, bucket, cloudFrontURL string) (*ImageUploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config for S3: %w", err)
	}
	return NewImageUploaderWithClient(s3.NewFromConfig(cfg), bucket, cloudFrontURL), nil
}

func NewImageUploaderWithClient(client PutObjectAPI, bucket, cloudFrontURL string) *ImageUploader {
	return &ImageUploader{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(cloudFrontURL, "/"),
		now:     time.Now,
	}
}

// Upload puts data under "<prefix>/<name>-<nanos><ext>" and returns the
// public URL of the object.
func (u *ImageUploader) Upload(ctx context.Context, data []byte, contentType, prefix, name string) (string, error) {
	key := fmt.Sprintf("%s/%s-%d%s", strings.Trim(prefix, "/"), name, u.now().UnixNano(), extensionFor(contentType))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if u.baseURL == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key), nil
	}
	return fmt.Sprintf("%s/%s", u.baseURL, key), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if _, sub, ok := strings.Cut(contentType, "/"); ok {
		return "." + sub
	}
	return ""
}
