package storage

import (
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const archivePrefix = "records"

// s3Archiver implements RecordArchiver using an S3-compatible backend.
type s3Archiver struct {
	client     *s3.Client
	bucketName string
	logger     zerolog.Logger
	now        func() time.Time
}

// NewS3Archiver creates a record archiver backed by the configured bucket.
func NewS3Archiver(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) (RecordArchiver, error) {
	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true // required by MinIO and most S3-compatible services
	})

	logger.Info().
		Str("endpoint", cfg.Endpoint).
		Str("bucket", cfg.BucketName).
		Msg("s3 record archiver initialized")

	return &s3Archiver{
		client:     s3Client,
		bucketName: cfg.BucketName,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// ArchiveRecord uploads the record as JSON under records/<userId>/.
func (s *s3Archiver) ArchiveRecord(ctx context.Context, rec *domain.UserWorkoutRecord) (string, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	key := ObjectKey(rec.UserID, s.now())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to archive record")
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	s.logger.Info().Str("key", key).Str("bucket", s.bucketName).Msg("archived record")
	return key, nil
}

// ObjectKey builds the archive key for a user snapshot taken at ts.
func ObjectKey(userID string, ts time.Time) string {
	name := fmt.Sprintf("%s-%s.json", ts.UTC().Format("20060102T150405Z"), uuid.NewString())
	return path.Join(archivePrefix, userID, name)
}
