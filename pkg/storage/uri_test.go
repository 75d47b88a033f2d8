package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantScheme string
		wantCont   string
		wantPrefix string
	}{
		{name: "nested prefix", uri: "s3://bucket/p1/p2/", wantScheme: "s3", wantCont: "bucket", wantPrefix: "p1/p2/"},
		{name: "leaf stripped", uri: "s3://bucket/p1/p2/k", wantScheme: "s3", wantCont: "bucket", wantPrefix: "p1/p2/"},
		{name: "bare bucket", uri: "s3://bucket", wantScheme: "s3", wantCont: "bucket", wantPrefix: ""},
		{name: "bucket slash", uri: "s3://bucket/", wantScheme: "s3", wantCont: "bucket", wantPrefix: ""},
		{name: "top level key", uri: "s3://bucket/key", wantScheme: "s3", wantCont: "bucket", wantPrefix: ""},
		{name: "scheme case folded", uri: "OCI://logs/2024/", wantScheme: "oci", wantCont: "logs", wantPrefix: "2024/"},
		{name: "file scheme", uri: "file://data/a/b.txt", wantScheme: "file", wantCont: "data", wantPrefix: "a/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseURI(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScheme, loc.Scheme)
			assert.Equal(t, tt.wantCont, loc.Container)
			assert.Equal(t, tt.wantPrefix, loc.Prefix)
		})
	}
}

func TestParseURI_Errors(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantErr error
	}{
		{name: "empty", uri: "", wantErr: ErrInvalidURI},
		{name: "no scheme", uri: "bucket/prefix/", wantErr: ErrMissingScheme},
		{name: "empty scheme", uri: "://bucket", wantErr: ErrMissingScheme},
		{name: "unknown scheme", uri: "gs://bucket", wantErr: ErrUnsupportedScheme},
		{name: "no container", uri: "s3://", wantErr: ErrMissingContainer},
		{name: "slash only", uri: "s3:///prefix", wantErr: ErrMissingContainer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURI(tt.uri)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLocationBackend(t *testing.T) {
	loc, err := ParseURI("minio://b/")
	require.NoError(t, err)
	assert.Equal(t, BackendMinio, loc.Backend())
	assert.Equal(t, "minio://b", loc.String())
}

func TestLookupScheme(t *testing.T) {
	b, ok := LookupScheme("OCI")
	assert.True(t, ok)
	assert.Equal(t, BackendOCI, b)
	_, ok = LookupScheme("gs")
	assert.False(t, ok)
}

func TestFormatURI(t *testing.T) {
	assert.Equal(t, "s3://", FormatURI("s3", "", ""))
	assert.Equal(t, "s3://b", FormatURI("s3", "b", ""))
	assert.Equal(t, "s3://b/p1/", FormatURI("s3", "b", "p1/"))
	assert.Equal(t, "oci://b/p1/k.txt", FormatURI("oci", "b", "p1/k.txt"))
}

func TestSchemeFor(t *testing.T) {
	assert.Equal(t, "s3", SchemeFor(BackendS3))
	assert.Equal(t, "s3", SchemeFor(BackendMinio))
	assert.Equal(t, "oci", SchemeFor(BackendOCI))
	assert.Equal(t, "file", SchemeFor(BackendFile))
}

func TestParentPrefix(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"p1/":       "",
		"p1/p2/":    "p1/",
		"p1/p2/p3/": "p1/p2/",
		"a":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ParentPrefix(in), "ParentPrefix(%q)", in)
	}
}
