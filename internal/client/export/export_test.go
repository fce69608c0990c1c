package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/erpdesk/internal/client/models"
)

type fakePutter struct {
	err  error
	in   *s3.PutObjectInput
	body []byte
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func stubAWS(t *testing.T, putter *fakePutter, loadErr error) *s3.Options {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newS3Client
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3Client = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			_ = fn(&lo)
		}
		if loadErr != nil {
			return aws.Config{}, loadErr
		}
		return aws.Config{Region: lo.Region, Credentials: lo.Credentials}, nil
	}

	var opts s3.Options
	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		for _, fn := range optFns {
			fn(&opts)
		}
		return putter
	}
	return &opts
}

func newTestExporter() *S3Exporter {
	e := NewS3Exporter(S3Config{
		Bucket:       "desk",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
	})
	e.now = func() time.Time { return time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC) }
	return e
}

func TestExport_PutsSnapshot(t *testing.T) {
	putter := &fakePutter{}
	opts := stubAWS(t, putter, nil)

	list := []models.Candidate{{ID: "c1", Name: "Ada", Stage: models.StageOffer, Status: models.StatusNegotiating}}
	key, err := newTestExporter().Export(context.Background(), list)
	require.NoError(t, err)

	require.Regexp(t, regexp.MustCompile(`^exports/candidates/2025/06/01/[0-9a-f-]{36}\.json$`), key)
	require.Equal(t, "desk", aws.ToString(putter.in.Bucket))
	require.Equal(t, key, aws.ToString(putter.in.Key))
	require.Equal(t, "application/json", aws.ToString(putter.in.ContentType))
	require.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
	require.True(t, opts.UsePathStyle)

	var got snapshot
	require.NoError(t, json.Unmarshal(putter.body, &got))
	require.Equal(t, 1, got.Count)
	require.Equal(t, list, got.Candidates)
}

func TestExport_Disabled(t *testing.T) {
	_, err := NewS3Exporter(S3Config{}).Export(context.Background(), nil)
	require.ErrorIs(t, err, ErrDisabled)
}

func TestExport_LoadConfigError(t *testing.T) {
	boom := errors.New("no config")
	stubAWS(t, &fakePutter{}, boom)

	_, err := newTestExporter().Export(context.Background(), nil)
	require.ErrorIs(t, err, boom)
}

func TestExport_PutError(t *testing.T) {
	boom := errors.New("bucket missing")
	stubAWS(t, &fakePutter{err: boom}, nil)

	_, err := newTestExporter().Export(context.Background(), []models.Candidate{})
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "put exports/candidates/2025/06/01/")
}

func TestExport_EmptyListIsArray(t *testing.T) {
	putter := &fakePutter{}
	stubAWS(t, putter, nil)

	_, err := newTestExporter().Export(context.Background(), nil)
	require.NoError(t, err)
	require.Contains(t, string(putter.body), `"candidates":[]`)
}
