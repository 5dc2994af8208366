package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3StoreConfig points the store at a bucket. Endpoint is set for
// S3-compatible hosts such as Supabase Storage and forces path-style URLs.
type S3StoreConfig struct {
	Bucket    string
	Region    string
	Endpoint  string
	PublicURL string
}

// S3ImageStore keeps images in an S3-compatible bucket.
type S3ImageStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3ImageStore(ctx context.Context, cfg S3StoreConfig) (*S3ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3ImageStore{client: client, bucket: cfg.Bucket, publicURL: publicURL}, nil
}

func (s *S3ImageStore) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		CacheControl:  aws.String("max-age=3600"),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3ImageStore) PublicURL(key string) string {
	return s.publicURL + "/" + key
}

func (s *S3ImageStore) KeyFromURL(url string) (string, bool) {
	return keyFromPublicURL(s.publicURL, url)
}

func keyFromPublicURL(base, url string) (string, bool) {
	key, ok := strings.CutPrefix(url, base+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
