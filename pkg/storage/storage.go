// Package storage defines the listing contract shared by every object-storage
// backend and a Client that drains paginated listings.
package storage

import (
	"context"
	"time"
)

// Backend identifies a storage implementation.
type Backend string

const (
	BackendS3    Backend = "s3"
	BackendMinio Backend = "minio"
	BackendOCI   Backend = "oci"
	BackendFile  Backend = "file"
)

// String returns the backend name.
func (b Backend) String() string { return string(b) }

// Delimiter separates prefix levels in keys.
const Delimiter = "/"

// Container is a top-level bucket. Location is a display-only region hint and
// may be empty.
type Container struct {
	ID       string `json:"id" yaml:"id"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Entry is a leaf object.
type Entry struct {
	Key          string    `json:"key" yaml:"key"`
	Size         int64     `json:"size" yaml:"size"`
	LastModified time.Time `json:"last_modified" yaml:"last_modified"`
}

// ContainerPage is one page of a container listing.
type ContainerPage struct {
	Containers        []Container
	ContinuationToken string
}

// Page is one page of a delimiter-bounded listing under a prefix.
type Page struct {
	Prefixes          []string
	Entries           []Entry
	ContinuationToken string
}

// ListPageOptions configures a single page request.
type ListPageOptions struct {
	Container         string
	Prefix            string
	Delimiter         string
	ContinuationToken string
	MaxKeys           int
}

// Lister is implemented by every backend. Implementations return one page per
// call; an empty ContinuationToken marks the last page.
type Lister interface {
	ListContainersPage(ctx context.Context, token string) (*ContainerPage, error)
	ListPage(ctx context.Context, opts ListPageOptions) (*Page, error)
	Backend() Backend
	Close() error
}

// Listing is the fully drained content of one level under a prefix.
type Listing struct {
	Container string
	Prefix    string
	Prefixes  []string
	Entries   []Entry
}
