package storage

import (
	"errors"
	"fmt"
	"strings"
)

// URI parsing errors
var (
	// ErrInvalidURI indicates the URI could not be parsed.
	ErrInvalidURI = errors.New("invalid URI")

	// ErrMissingScheme indicates the URI lacks the scheme:// prefix.
	ErrMissingScheme = errors.New("missing scheme")

	// ErrUnsupportedScheme indicates the URI scheme maps to no backend.
	ErrUnsupportedScheme = errors.New("unsupported scheme")

	// ErrMissingContainer indicates the URI is missing a container name.
	ErrMissingContainer = errors.New("missing container name")
)

// schemes maps URI schemes to the backend that serves them by default.
var schemes = map[string]Backend{
	"s3":    BackendS3,
	"minio": BackendMinio,
	"oci":   BackendOCI,
	"file":  BackendFile,
}

// Location is a parsed scheme://container/prefix path.
//
// Example URIs:
//   - s3://bucket
//   - s3://bucket/p1/p2/
//   - oci://bucket/p1/report.csv (leaf stripped, Prefix is "p1/")
type Location struct {
	// Scheme is the lower-cased URI scheme.
	Scheme string

	// Container is the bucket name.
	Container string

	// Prefix always ends in the delimiter or is empty.
	Prefix string
}

// LookupScheme returns the backend registered for scheme.
func LookupScheme(scheme string) (Backend, bool) {
	b, ok := schemes[strings.ToLower(scheme)]
	return b, ok
}

// Backend returns the backend registered for the scheme.
func (l Location) Backend() Backend {
	return schemes[l.Scheme]
}

// String returns the location in canonical form.
func (l Location) String() string {
	return FormatURI(l.Scheme, l.Container, l.Prefix)
}

// ParseURI parses a resource path into its container and prefix. A trailing
// segment without a delimiter is treated as a leaf and stripped back to its
// containing prefix.
func ParseURI(uri string) (Location, error) {
	if uri == "" {
		return Location{}, fmt.Errorf("%w: empty URI", ErrInvalidURI)
	}

	schemeEnd := strings.Index(uri, "://")
	if schemeEnd <= 0 {
		return Location{}, fmt.Errorf("%w: %q (expected scheme://container/prefix)", ErrMissingScheme, uri)
	}

	scheme := strings.ToLower(uri[:schemeEnd])
	if _, ok := schemes[scheme]; !ok {
		return Location{}, fmt.Errorf("%w: %s (supported: s3, minio, oci, file)", ErrUnsupportedScheme, scheme)
	}

	remainder := uri[schemeEnd+3:]
	container, key, _ := strings.Cut(remainder, Delimiter)
	if container == "" {
		return Location{}, fmt.Errorf("%w: in %s", ErrMissingContainer, uri)
	}

	return Location{
		Scheme:    scheme,
		Container: container,
		Prefix:    containingPrefix(key),
	}, nil
}

// containingPrefix drops everything after the last delimiter.
func containingPrefix(key string) string {
	idx := strings.LastIndex(key, Delimiter)
	if idx == -1 {
		return ""
	}
	return key[:idx+1]
}

// FormatURI renders scheme://container/key. An empty container yields the
// bare scheme prefix.
func FormatURI(scheme, container, key string) string {
	if container == "" {
		return scheme + "://"
	}
	if key == "" {
		return fmt.Sprintf("%s://%s", scheme, container)
	}
	return fmt.Sprintf("%s://%s/%s", scheme, container, key)
}

// SchemeFor returns the URI scheme used when displaying paths of a backend.
// MinIO speaks the S3 protocol and is displayed as s3.
func SchemeFor(b Backend) string {
	switch b {
	case BackendMinio, BackendS3:
		return "s3"
	case BackendOCI:
		return "oci"
	case BackendFile:
		return "file"
	default:
		return string(b)
	}
}

// ParentPrefix returns the prefix one level above p, or "" at the top.
func ParentPrefix(p string) string {
	trimmed := strings.TrimSuffix(p, Delimiter)
	return containingPrefix(trimmed)
}
