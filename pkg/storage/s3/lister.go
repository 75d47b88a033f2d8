package s3

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"golang.org/x/sync/errgroup"

	"github.com/adrianmross/objnav/pkg/storage"
)

// API is the subset of the S3 client used for listing.
type API interface {
	ListBuckets(ctx context.Context, in *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketLocation(ctx context.Context, in *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Lister lists buckets and prefixes through the S3 API.
type Lister struct {
	api         API
	endpoint    string
	maxKeys     int
	concurrency int
}

var _ storage.Lister = (*Lister)(nil)

// New creates an S3 lister from cfg.
func New(ctx context.Context, cfg Config) (*Lister, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, &storage.StorageError{Op: "New", Backend: storage.BackendS3, Err: err}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithAPI(client, cfg), nil
}

// NewWithAPI wraps an existing client, typically a fake in tests.
func NewWithAPI(api API, cfg Config) *Lister {
	concurrency := cfg.LocationConcurrency
	if concurrency <= 0 {
		concurrency = DefaultLocationConcurrency
	}
	return &Lister{
		api:         api,
		endpoint:    cfg.Endpoint,
		maxKeys:     clampMaxKeys(cfg.MaxKeys, DefaultMaxKeys),
		concurrency: concurrency,
	}
}

func loadAWSConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}
	awsCfg.Region = resolveRegion(cfg.Endpoint, awsCfg.Region)
	return awsCfg, nil
}

// Backend implements storage.Lister.
func (l *Lister) Backend() storage.Backend { return storage.BackendS3 }

// ListContainersPage returns one page of buckets. Buckets whose region is not
// reported inline are resolved with GetBucketLocation; a failed lookup leaves
// the location empty.
func (l *Lister) ListContainersPage(ctx context.Context, token string) (*storage.ContainerPage, error) {
	in := &s3.ListBucketsInput{}
	if token != "" {
		in.ContinuationToken = aws.String(token)
	}
	out, err := l.api.ListBuckets(ctx, in)
	if err != nil {
		return nil, wrapError("ListContainers", "", "", err)
	}

	containers := make([]storage.Container, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		containers = append(containers, storage.Container{
			ID:       aws.ToString(b.Name),
			Location: aws.ToString(b.BucketRegion),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i := range containers {
		if containers[i].Location != "" {
			continue
		}
		g.Go(func() error {
			loc, err := l.bucketLocation(gctx, containers[i].ID)
			if err == nil {
				containers[i].Location = loc
			}
			return nil
		})
	}
	_ = g.Wait()

	return &storage.ContainerPage{
		Containers:        containers,
		ContinuationToken: aws.ToString(out.ContinuationToken),
	}, nil
}

func (l *Lister) bucketLocation(ctx context.Context, bucket string) (string, error) {
	out, err := l.api.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(bucket)})
	if err != nil {
		return "", wrapError("GetBucketLocation", bucket, "", err)
	}
	loc := string(out.LocationConstraint)
	// AWS reports us-east-1 as an empty constraint.
	if loc == "" && l.endpoint == "" {
		loc = DefaultAWSRegion
	}
	return loc, nil
}

// ListPage returns one page of a delimiter-bounded listing.
func (l *Lister) ListPage(ctx context.Context, opts storage.ListPageOptions) (*storage.Page, error) {
	in := &s3.ListObjectsV2Input{
		Bucket:  aws.String(opts.Container),
		MaxKeys: aws.Int32(int32(clampMaxKeys(opts.MaxKeys, l.maxKeys))),
	}
	if opts.Prefix != "" {
		in.Prefix = aws.String(opts.Prefix)
	}
	if opts.Delimiter != "" {
		in.Delimiter = aws.String(opts.Delimiter)
	}
	if opts.ContinuationToken != "" {
		in.ContinuationToken = aws.String(opts.ContinuationToken)
	}

	out, err := l.api.ListObjectsV2(ctx, in)
	if err != nil {
		return nil, wrapError("ListPage", opts.Container, opts.Prefix, err)
	}

	page := &storage.Page{
		Prefixes: make([]string, 0, len(out.CommonPrefixes)),
		Entries:  make([]storage.Entry, 0, len(out.Contents)),
	}
	for _, cp := range out.CommonPrefixes {
		page.Prefixes = append(page.Prefixes, aws.ToString(cp.Prefix))
	}
	for _, obj := range out.Contents {
		page.Entries = append(page.Entries, storage.Entry{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	if aws.ToBool(out.IsTruncated) {
		page.ContinuationToken = aws.ToString(out.NextContinuationToken)
	}
	return page, nil
}

// Close implements storage.Lister. The SDK client holds no resources that
// need explicit release.
func (l *Lister) Close() error { return nil }

// wrapError converts S3 errors to storage errors with matching sentinels.
func wrapError(op, bucket, prefix string, err error) error {
	wrapped := &storage.StorageError{
		Op:        op,
		Backend:   storage.BackendS3,
		Container: bucket,
		Prefix:    prefix,
		Err:       err,
	}

	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var noSuchBucket *types.NoSuchBucket
	switch {
	case errors.As(err, &noSuchBucket):
		wrapped.Err = storage.Tag(storage.ErrContainerNotFound, err)
		return wrapped
	case errors.As(err, &notFound), errors.As(err, &noSuchKey):
		wrapped.Err = storage.Tag(storage.ErrNotFound, err)
		return wrapped
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			wrapped.Err = storage.Tag(storage.ErrNotFound, err)
		case "NoSuchBucket":
			wrapped.Err = storage.Tag(storage.ErrContainerNotFound, err)
		case "AccessDenied", "Forbidden", "AllAccessDisabled":
			wrapped.Err = storage.Tag(storage.ErrAccessDenied, err)
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "InvalidToken":
			wrapped.Err = storage.Tag(storage.ErrInvalidCredentials, err)
		case "SlowDown", "Throttling", "RequestLimitExceeded":
			wrapped.Err = storage.Tag(storage.ErrThrottled, err)
		case "ServiceUnavailable", "InternalError":
			wrapped.Err = storage.Tag(storage.ErrUnavailable, err)
		}
		return wrapped
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "NoSuchBucket"):
		wrapped.Err = storage.Tag(storage.ErrContainerNotFound, err)
	case strings.Contains(msg, "AccessDenied") || strings.Contains(msg, "403"):
		wrapped.Err = storage.Tag(storage.ErrAccessDenied, err)
	case strings.Contains(msg, "SlowDown") || strings.Contains(msg, "429"):
		wrapped.Err = storage.Tag(storage.ErrThrottled, err)
	case strings.Contains(msg, "ServiceUnavailable") || strings.Contains(msg, "503"):
		wrapped.Err = storage.Tag(storage.ErrUnavailable, err)
	}
	return wrapped
}

// clampMaxKeys applies defaults and limits to page sizes.
func clampMaxKeys(requested, fallback int) int {
	if requested <= 0 {
		requested = fallback
	}
	if requested <= 0 {
		requested = DefaultMaxKeys
	}
	if requested > MaxAllowedKeys {
		return MaxAllowedKeys
	}
	return requested
}

// resolveRegion defaults to us-east-1 for AWS when nothing else set a region.
// S3-compatible endpoints get no default.
func resolveRegion(endpoint, sdkRegion string) string {
	if sdkRegion != "" {
		return sdkRegion
	}
	if endpoint == "" {
		return DefaultAWSRegion
	}
	return ""
}
