// Package minio implements the storage listing contract on top of minio-go.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/adrianmross/objnav/pkg/storage"
)

// Config configures a MinIO lister.
type Config struct {
	// Endpoint is host:port or a full http(s) URL.
	Endpoint string

	// AccessKey and SecretKey pin static credentials. When empty the
	// environment and shared credential files are consulted.
	AccessKey    string
	SecretKey    string
	SessionToken string

	// Profile selects the section of ~/.aws/credentials in the fallback chain.
	Profile string

	Region string
}

// API is the subset of *minio.Client used for listing.
type API interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	GetBucketLocation(ctx context.Context, bucketName string) (string, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Lister lists buckets and prefixes through minio-go. minio-go follows
// continuation tokens internally, so every ListPage is a final page.
type Lister struct {
	api API
}

var _ storage.Lister = (*Lister)(nil)

// New creates a lister for cfg.
func New(cfg Config) (*Lister, error) {
	host, secure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, &storage.StorageError{Op: "New", Backend: storage.BackendMinio, Err: err}
	}
	client, err := minio.New(host, &minio.Options{
		Creds:  credentialsFor(cfg),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, &storage.StorageError{Op: "New", Backend: storage.BackendMinio, Err: err}
	}
	return NewWithAPI(client), nil
}

// NewWithAPI wraps an existing client.
func NewWithAPI(api API) *Lister {
	return &Lister{api: api}
}

func credentialsFor(cfg Config) *credentials.Credentials {
	if cfg.AccessKey != "" {
		return credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken)
	}
	return credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
		&credentials.FileAWSCredentials{Profile: cfg.Profile},
		&credentials.FileMinioClient{},
	})
}

// splitEndpoint strips an http(s) scheme from endpoint and reports whether
// TLS should be used.
func splitEndpoint(endpoint string) (string, bool, error) {
	if endpoint == "" {
		return "", false, fmt.Errorf("endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		return endpoint, shouldUseSSL(endpoint), nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse endpoint: %w", err)
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
}

// shouldUseSSL disables TLS for local development hosts.
func shouldUseSSL(endpoint string) bool {
	host := strings.Split(endpoint, ":")[0]
	switch host {
	case "localhost", "127.0.0.1":
		return false
	}
	// Docker service names such as minio:9000
	if strings.HasPrefix(host, "minio") && !strings.Contains(host, ".") && strings.Contains(endpoint, ":9000") {
		return false
	}
	return true
}

// Backend implements storage.Lister.
func (l *Lister) Backend() storage.Backend { return storage.BackendMinio }

// ListContainersPage returns every bucket with its location.
func (l *Lister) ListContainersPage(ctx context.Context, _ string) (*storage.ContainerPage, error) {
	buckets, err := l.api.ListBuckets(ctx)
	if err != nil {
		return nil, wrapError("ListContainers", "", "", err)
	}
	out := make([]storage.Container, 0, len(buckets))
	for _, b := range buckets {
		loc, err := l.api.GetBucketLocation(ctx, b.Name)
		if err != nil {
			loc = ""
		}
		out = append(out, storage.Container{ID: b.Name, Location: loc})
	}
	return &storage.ContainerPage{Containers: out}, nil
}

// ListPage drains a non-recursive listing. Common prefixes arrive from
// minio-go as bare keys ending in the delimiter with no modification time.
func (l *Lister) ListPage(ctx context.Context, opts storage.ListPageOptions) (*storage.Page, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	page := &storage.Page{}
	for obj := range l.api.ListObjects(ctx, opts.Container, minio.ListObjectsOptions{
		Prefix:    opts.Prefix,
		Recursive: false,
		MaxKeys:   opts.MaxKeys,
	}) {
		if obj.Err != nil {
			return nil, wrapError("ListPage", opts.Container, opts.Prefix, obj.Err)
		}
		if strings.HasSuffix(obj.Key, storage.Delimiter) && obj.LastModified.IsZero() {
			page.Prefixes = append(page.Prefixes, obj.Key)
			continue
		}
		page.Entries = append(page.Entries, storage.Entry{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return page, nil
}

// Close implements storage.Lister.
func (l *Lister) Close() error { return nil }

// wrapError maps MinIO error responses onto storage sentinels.
func wrapError(op, bucket, prefix string, err error) error {
	wrapped := &storage.StorageError{
		Op:        op,
		Backend:   storage.BackendMinio,
		Container: bucket,
		Prefix:    prefix,
		Err:       err,
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchBucket":
		wrapped.Err = storage.Tag(storage.ErrContainerNotFound, err)
	case "NoSuchKey", "NotFound":
		wrapped.Err = storage.Tag(storage.ErrNotFound, err)
	case "AccessDenied":
		wrapped.Err = storage.Tag(storage.ErrAccessDenied, err)
	case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
		wrapped.Err = storage.Tag(storage.ErrInvalidCredentials, err)
	case "SlowDown", "SlowDownRead", "RequestLimitExceeded":
		wrapped.Err = storage.Tag(storage.ErrThrottled, err)
	case "ServiceUnavailable", "InternalError", "XMinioServerNotInitialized":
		wrapped.Err = storage.Tag(storage.ErrUnavailable, err)
	}
	return wrapped
}
