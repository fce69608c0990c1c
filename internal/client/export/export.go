// Package export ships snapshots of the candidate pipeline to S3-compatible
// object storage.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
)

var ErrDisabled = errors.New("export is not configured")

// Exporter stores a snapshot of candidates and returns the key it was
// stored under.
type Exporter interface {
	Export(ctx context.Context, candidates []models.Candidate) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Seams for tests.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

type S3Exporter struct {
	cfg S3Config
	now func() time.Time
}

func NewS3Exporter(cfg S3Config) *S3Exporter {
	return &S3Exporter{cfg: cfg, now: time.Now}
}

type snapshot struct {
	ExportedAt time.Time          `json:"exportedAt"`
	Count      int                `json:"count"`
	Candidates []models.Candidate `json:"candidates"`
}

func (e *S3Exporter) Export(ctx context.Context, candidates []models.Candidate) (string, error) {
	if e.cfg.Bucket == "" {
		return "", ErrDisabled
	}

	now := e.now().UTC()
	if candidates == nil {
		candidates = []models.Candidate{}
	}
	body, err := json.Marshal(snapshot{ExportedAt: now, Count: len(candidates), Candidates: candidates})
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	client, err := e.client(ctx)
	if err != nil {
		return "", err
	}

	key := objectKey(now)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

func (e *S3Exporter) client(ctx context.Context) (objectPutter, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(e.cfg.Region)}
	if e.cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.cfg.AccessKey, e.cfg.SecretKey, "",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newS3Client(cfg, func(o *s3.Options) {
		if e.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(e.cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func objectKey(t time.Time) string {
	return fmt.Sprintf("exports/candidates/%s/%s.json", t.Format("2006/01/02"), uuid.NewString())
}
