// Package oci implements the storage listing contract for OCI Object Storage.
package oci

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/objectstorage"

	"github.com/adrianmross/objnav/pkg/storage"
)

// Config configures an Object Storage lister.
type Config struct {
	// ConfigPath is the OCI CLI config file (e.g., ~/.oci/config).
	ConfigPath string
	// Profile is the profile name inside ConfigPath.
	Profile string
	// Region overrides the profile region.
	Region string
	// Namespace is looked up with GetNamespace when empty.
	Namespace string
	// Compartment scopes ListBuckets. Defaults to the tenancy (root compartment).
	Compartment string
	// MaxKeys is the page size for bucket and object listings.
	MaxKeys int
}

// DefaultMaxKeys is the page size used when Config.MaxKeys is unset.
const DefaultMaxKeys = 1000

// API is the subset of objectstorage.ObjectStorageClient used for listing.
type API interface {
	GetNamespace(ctx context.Context, request objectstorage.GetNamespaceRequest) (objectstorage.GetNamespaceResponse, error)
	ListBuckets(ctx context.Context, request objectstorage.ListBucketsRequest) (objectstorage.ListBucketsResponse, error)
	ListObjects(ctx context.Context, request objectstorage.ListObjectsRequest) (objectstorage.ListObjectsResponse, error)
}

// Lister lists buckets and prefixes in one namespace.
type Lister struct {
	api         API
	namespace   string
	compartment string
	region      string
	maxKeys     int
}

var _ storage.Lister = (*Lister)(nil)

// New builds a client from the OCI CLI config and resolves the namespace.
func New(ctx context.Context, cfg Config) (*Lister, error) {
	if cfg.ConfigPath == "" {
		return nil, fmt.Errorf("oci config path required")
	}
	provider, err := common.ConfigurationProviderFromFileWithProfile(cfg.ConfigPath, cfg.Profile, "")
	if err != nil {
		return nil, fmt.Errorf("config provider: %w", err)
	}
	client, err := objectstorage.NewObjectStorageClientWithConfigurationProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("object storage client: %w", err)
	}
	region := cfg.Region
	if region != "" {
		client.SetRegion(region)
	} else if r, err := provider.Region(); err == nil {
		region = r
	}
	if cfg.Compartment == "" {
		tenancy, err := provider.TenancyOCID()
		if err != nil {
			return nil, fmt.Errorf("tenancy: %w", err)
		}
		cfg.Compartment = tenancy
	}
	cfg.Region = region
	return NewWithAPI(ctx, client, cfg)
}

// NewWithAPI wraps an existing client, resolving the namespace if unset.
func NewWithAPI(ctx context.Context, api API, cfg Config) (*Lister, error) {
	ns := cfg.Namespace
	if ns == "" {
		resp, err := api.GetNamespace(ctx, objectstorage.GetNamespaceRequest{})
		if err != nil {
			return nil, wrapError("GetNamespace", "", "", err)
		}
		ns = deref(resp.Value)
	}
	maxKeys := cfg.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}
	return &Lister{
		api:         api,
		namespace:   ns,
		compartment: cfg.Compartment,
		region:      cfg.Region,
		maxKeys:     maxKeys,
	}, nil
}

// Namespace returns the resolved Object Storage namespace.
func (l *Lister) Namespace() string { return l.namespace }

// Backend implements storage.Lister.
func (l *Lister) Backend() storage.Backend { return storage.BackendOCI }

// ListContainersPage returns one page of buckets in the configured
// compartment. Buckets are regional, so the location is the client region.
func (l *Lister) ListContainersPage(ctx context.Context, token string) (*storage.ContainerPage, error) {
	req := objectstorage.ListBucketsRequest{
		NamespaceName: common.String(l.namespace),
		CompartmentId: common.String(l.compartment),
		Limit:         common.Int(l.maxKeys),
	}
	if token != "" {
		req.Page = common.String(token)
	}
	resp, err := l.api.ListBuckets(ctx, req)
	if err != nil {
		return nil, wrapError("ListContainers", "", "", err)
	}
	out := make([]storage.Container, 0, len(resp.Items))
	for _, b := range resp.Items {
		out = append(out, storage.Container{ID: deref(b.Name), Location: l.region})
	}
	return &storage.ContainerPage{Containers: out, ContinuationToken: deref(resp.OpcNextPage)}, nil
}

// ListPage returns one page of a delimiter-bounded listing.
func (l *Lister) ListPage(ctx context.Context, opts storage.ListPageOptions) (*storage.Page, error) {
	limit := opts.MaxKeys
	if limit <= 0 {
		limit = l.maxKeys
	}
	req := objectstorage.ListObjectsRequest{
		NamespaceName: common.String(l.namespace),
		BucketName:    common.String(opts.Container),
		Limit:         common.Int(limit),
		Fields:        common.String("name,size,timeModified"),
	}
	if opts.Prefix != "" {
		req.Prefix = common.String(opts.Prefix)
	}
	if opts.Delimiter != "" {
		req.Delimiter = common.String(opts.Delimiter)
	}
	if opts.ContinuationToken != "" {
		req.Start = common.String(opts.ContinuationToken)
	}

	resp, err := l.api.ListObjects(ctx, req)
	if err != nil {
		return nil, wrapError("ListPage", opts.Container, opts.Prefix, err)
	}

	page := &storage.Page{Prefixes: append([]string(nil), resp.ListObjects.Prefixes...)}
	for _, o := range resp.ListObjects.Objects {
		e := storage.Entry{Key: deref(o.Name)}
		if o.Size != nil {
			e.Size = *o.Size
		}
		if o.TimeModified != nil {
			e.LastModified = o.TimeModified.Time
		}
		page.Entries = append(page.Entries, e)
	}
	page.ContinuationToken = deref(resp.ListObjects.NextStartWith)
	return page, nil
}

// Close implements storage.Lister.
func (l *Lister) Close() error { return nil }

// wrapError maps OCI service errors onto storage sentinels.
func wrapError(op, bucket, prefix string, err error) error {
	wrapped := &storage.StorageError{
		Op:        op,
		Backend:   storage.BackendOCI,
		Container: bucket,
		Prefix:    prefix,
		Err:       err,
	}
	svcErr, ok := common.IsServiceError(err)
	if !ok {
		return wrapped
	}
	switch code := svcErr.GetHTTPStatusCode(); {
	case code == http.StatusNotFound && svcErr.GetCode() == "BucketNotFound":
		wrapped.Err = storage.Tag(storage.ErrContainerNotFound, err)
	case code == http.StatusNotFound:
		// Object Storage answers 404 for buckets the caller may not see.
		if bucket != "" {
			wrapped.Err = storage.Tag(storage.ErrContainerNotFound, err)
		} else {
			wrapped.Err = storage.Tag(storage.ErrNotFound, err)
		}
	case code == http.StatusUnauthorized:
		wrapped.Err = storage.Tag(storage.ErrInvalidCredentials, err)
	case code == http.StatusForbidden:
		wrapped.Err = storage.Tag(storage.ErrAccessDenied, err)
	case code == http.StatusTooManyRequests:
		wrapped.Err = storage.Tag(storage.ErrThrottled, err)
	case code >= http.StatusInternalServerError:
		wrapped.Err = storage.Tag(storage.ErrUnavailable, err)
	}
	return wrapped
}

func deref(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
