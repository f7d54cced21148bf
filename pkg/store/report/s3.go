package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const DefaultRegion = "us-east-1" // used when the tenant profile leaves the region empty

// LoadAWSConfig resolves credentials and region through the standard SDK
// chain. A region set on the tenant profile wins over the environment.
func LoadAWSConfig(ctx context.Context, region string) (*awssdk.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(DefaultRegion)}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &cfg, nil
}

// objectGetter is the slice of the S3 API the source needs.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a tenant's report exports from objects under a bucket
// prefix. The export pipeline writes one object per report file, so a
// plain GetObject per report is enough; no listing or pagination.
type S3Source struct {
	client objectGetter
	bucket string
	prefix string
}

func NewS3Source(cfg awssdk.Config, bucket, prefix string) *S3Source {
	return &S3Source{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}
}

func (s *S3Source) UsageDetail(ctx context.Context, workload domain.Workload) ([]domain.UsageRecord, int, error) {
	body, err := s.open(ctx, UsageFile(workload))
	if err != nil {
		return nil, 0, err
	}
	defer closeBody(ctx, body)

	return decodeUsage(ctx, workload, body)
}

// History returns nil when the history object is absent; callers fall
// back to the snapshot store or an assumed growth rate.
func (s *S3Source) History(ctx context.Context, workload domain.Workload) ([]domain.HistoricalSample, error) {
	body, err := s.open(ctx, HistoryFile)
	if err != nil {
		var notFound *types.NoSuchKey
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	defer closeBody(ctx, body)

	return decodeHistory(ctx, workload, body)
}

func (s *S3Source) CollectArchiveStats(ctx context.Context, mailboxIDs []string) ([]domain.ArchiveStat, error) {
	if len(mailboxIDs) == 0 {
		return nil, nil
	}

	body, err := s.open(ctx, ArchiveFile)
	if err != nil {
		return nil, err
	}
	defer closeBody(ctx, body)

	return decodeArchive(ctx, body, toSet(mailboxIDs))
}

func (s *S3Source) open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := path.Join(s.prefix, name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %w", s.bucket, key, err)
	}
	return out.Body, nil
}

func closeBody(ctx context.Context, body io.ReadCloser) {
	if err := body.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close report object body")
	}
}
