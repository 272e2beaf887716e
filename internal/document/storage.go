// Package document handles incident attachments. Files never pass through
// the API server: clients get short-lived presigned URLs and talk to object
// storage directly.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Config struct {
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	UsePathStyle bool
	PresignTTL   time.Duration
}

// Storage wraps the S3 client and its presigner.
type Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	ttl       time.Duration
	logger    *slog.Logger
}

// NewStorage builds the client the same way the rest of our AWS integrations
// do: static credentials when provided, default chain otherwise.
func NewStorage(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("document storage: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		ttl:       ttl,
		logger:    logger,
	}, nil
}

// PresignedUpload is what the client needs to PUT an attachment directly.
type PresignedUpload struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PresignUpload issues a PUT URL for a new attachment. The object key embeds
// the incident id so bucket lifecycle rules can be scoped per record.
func (s *Storage) PresignUpload(ctx context.Context, incidentID int64, filename string) (*PresignedUpload, error) {
	key := objectKey(incidentID, filename)

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		s.logger.Error("failed to presign upload", "error", err, "key", key)
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &PresignedUpload{
		Key:       key,
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

// PresignDownload issues a GET URL for an existing attachment key.
func (s *Storage) PresignDownload(ctx context.Context, key string) (*PresignedUpload, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		s.logger.Error("failed to presign download", "error", err, "key", key)
		return nil, fmt.Errorf("presign download: %w", err)
	}

	return &PresignedUpload{
		Key:       key,
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: time.Now().Add(s.ttl),
	}, nil
}

// Delete removes an attachment object, used when a draft incident is deleted.
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func objectKey(incidentID int64, filename string) string {
	base := path.Base(filename)
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("incidents/%d/%s-%s", incidentID, uuid.NewString(), base)
}
