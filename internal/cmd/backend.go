package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/adrianmross/objnav/internal/browse"
	"github.com/adrianmross/objnav/pkg/config"
	"github.com/adrianmross/objnav/pkg/profiles"
	"github.com/adrianmross/objnav/pkg/storage"
	"github.com/adrianmross/objnav/pkg/storage/file"
	"github.com/adrianmross/objnav/pkg/storage/minio"
	"github.com/adrianmross/objnav/pkg/storage/oci"
	"github.com/adrianmross/objnav/pkg/storage/s3"
)

// storageService is what the commands need from a backend client.
type storageService interface {
	browse.Service
	Close() error
}

// openStorage is a seam to allow testing without hitting the network.
var openStorage = func(ctx context.Context, c config.Context, opts config.Options) (storageService, error) {
	return newStorageClient(ctx, c, opts)
}

// newStorageClient builds the lister for the context's backend and wraps it
// in a paginating client.
func newStorageClient(ctx context.Context, c config.Context, opts config.Options) (*storage.Client, error) {
	var (
		lister storage.Lister
		err    error
	)
	switch c.Backend {
	case storage.BackendS3, "":
		lister, err = s3.New(ctx, s3.Config{
			Region:         c.Region,
			Endpoint:       c.Endpoint,
			Profile:        c.Profile,
			ForcePathStyle: c.PathStyle,
			MaxKeys:        opts.MaxKeys,
		})
	case storage.BackendMinio:
		lister, err = minio.New(minio.Config{
			Endpoint: c.Endpoint,
			Profile:  c.Profile,
			Region:   c.Region,
		})
	case storage.BackendOCI:
		home, herr := os.UserHomeDir()
		if herr != nil {
			return nil, herr
		}
		lister, err = oci.New(ctx, oci.Config{
			ConfigPath:  profiles.OCIPath(home),
			Profile:     c.Profile,
			Region:      c.Region,
			Namespace:   c.Namespace,
			Compartment: c.Compartment,
			MaxKeys:     opts.MaxKeys,
		})
	case storage.BackendFile:
		root := c.Root
		if root == "" {
			root = "."
		}
		lister, err = file.New(file.Config{Root: root})
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", c.Backend, err)
	}
	return storage.NewClient(lister, opts.MaxKeys), nil
}
