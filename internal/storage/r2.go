package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"tta-backend/internal/config"
)

// R2Client stores uploaded documents (MoU scans, REP logos, profile
// photos) in a Cloudflare R2 bucket through the S3 API.
type R2Client struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewR2Client builds the client from config. Returns nil when R2 is not
// configured; callers treat a nil client as uploads-disabled.
func NewR2Client(cfg *config.Config) *R2Client {
	if cfg.R2.Endpoint == "" || cfg.R2.AccessKey == "" || cfg.R2.SecretKey == "" || cfg.R2.Bucket == "" {
		log.Printf("[Storage] R2 not configured, document uploads disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.R2.AccessKey,
			cfg.R2.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.R2.Region),
	)
	if err != nil {
		log.Printf("[Storage] Failed to configure R2 client: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2.Endpoint)
	})

	return &R2Client{
		client:    client,
		bucket:    cfg.R2.Bucket,
		publicURL: strings.TrimRight(cfg.R2.PublicURL, "/"),
	}
}

// Upload stores an object and returns the URL the dashboard can load it
// from.
func (c *R2Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if c.publicURL != "" {
		return c.publicURL + "/" + key, nil
	}
	return key, nil
}

// Download fetches an object's contents
func (c *R2Client) Download(ctx context.Context, key string) ([]byte, error) {
	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer result.Body.Close()

	return io.ReadAll(result.Body)
}

// Delete removes an object. Missing objects are not an error.
func (c *R2Client) Delete(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	return err
}
