package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/productdash_api/internal/config"
	"github.com/GTDGit/productdash_api/internal/models"
)

// S3PutObjectAPI is the part of the S3 client used for archiving.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Service archives catalog snapshots to S3 after every successful write.
type S3Service struct {
	client S3PutObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Service creates an S3Service using the default AWS credential chain.
func NewS3Service(ctx context.Context, cfg *config.S3Config) (*S3Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("S3 config is nil")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	log.Info().
		Str("bucket", cfg.Bucket).
		Str("region", cfg.Region).
		Msg("S3 snapshot archive initialised")

	return NewS3ServiceWithClient(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix), nil
}

// NewS3ServiceWithClient creates an S3Service around an existing client.
func NewS3ServiceWithClient(client S3PutObjectAPI, bucket, prefix string) *S3Service {
	return &S3Service{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
	}
}

// SnapshotKey returns the object key for a snapshot taken at t with the given sha.
func (s *S3Service) SnapshotKey(t time.Time, sha string) string {
	if sha == "" {
		sha = "nosha"
	}
	return fmt.Sprintf("%s%s-%s.json", s.prefix, t.UTC().Format("20060102T150405Z"), sha)
}

// Archive uploads the catalog as pretty-printed JSON.
func (s *S3Service) Archive(ctx context.Context, catalog *models.Catalog) error {
	products := catalog.Products
	if products == nil {
		products = []models.Product{}
	}
	body, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := s.SnapshotKey(s.now(), catalog.SHA)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put snapshot (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	log.Debug().Str("bucket", s.bucket).Str("key", key).Msg("catalog snapshot archived")
	return nil
}
