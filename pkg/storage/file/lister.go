// Package file serves a local directory tree through the storage listing
// contract. Directories directly under the root are containers.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrianmross/objnav/pkg/storage"
)

// Location is the display hint reported for every local container.
const Location = "local"

// Config configures a file lister.
type Config struct {
	Root string
}

// Validate checks that the root is set.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return fmt.Errorf("root dir is required")
	}
	return nil
}

// Lister reads directories under a root.
type Lister struct {
	root string
}

var _ storage.Lister = (*Lister)(nil)

// New creates a lister rooted at cfg.Root.
func New(cfg Config) (*Lister, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root := filepath.Clean(cfg.Root)
	fi, err := os.Stat(root)
	if err != nil {
		return nil, wrapError("New", "", "", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}
	return &Lister{root: root}, nil
}

// Backend implements storage.Lister.
func (l *Lister) Backend() storage.Backend { return storage.BackendFile }

// Close implements storage.Lister.
func (l *Lister) Close() error { return nil }

// ListContainersPage lists the directories under the root in one page.
func (l *Lister) ListContainersPage(ctx context.Context, _ string) (*storage.ContainerPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, wrapError("ListContainers", "", "", err)
	}
	page := &storage.ContainerPage{}
	for _, e := range entries {
		if e.IsDir() {
			page.Containers = append(page.Containers, storage.Container{ID: e.Name(), Location: Location})
		}
	}
	return page, nil
}

// ListPage lists one directory. Results are in name order; the continuation
// token is the last name returned when MaxKeys cuts the page short.
func (l *Lister) ListPage(ctx context.Context, opts storage.ListPageOptions) (*storage.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := l.resolve(opts.Container, opts.Prefix)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(l.root, opts.Container)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &storage.StorageError{Op: "ListPage", Backend: storage.BackendFile, Container: opts.Container, Err: storage.ErrContainerNotFound}
		}
		return nil, wrapError("ListPage", opts.Container, opts.Prefix, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// A missing prefix lists as empty, matching object stores.
		if errors.Is(err, fs.ErrNotExist) {
			return &storage.Page{}, nil
		}
		return nil, wrapError("ListPage", opts.Container, opts.Prefix, err)
	}

	page := &storage.Page{}
	count := 0
	last := ""
	for _, e := range entries {
		name := e.Name()
		if opts.ContinuationToken != "" && name <= opts.ContinuationToken {
			continue
		}
		if opts.MaxKeys > 0 && count == opts.MaxKeys {
			page.ContinuationToken = last
			break
		}
		count++
		last = name
		if e.IsDir() {
			page.Prefixes = append(page.Prefixes, opts.Prefix+name+storage.Delimiter)
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, wrapError("ListPage", opts.Container, opts.Prefix, err)
		}
		page.Entries = append(page.Entries, storage.Entry{
			Key:          opts.Prefix + name,
			Size:         info.Size(),
			LastModified: info.ModTime().UTC(),
		})
	}
	return page, nil
}

// resolve maps container and prefix to a directory inside the root.
func (l *Lister) resolve(container, prefix string) (string, error) {
	rel := filepath.Join(container, filepath.FromSlash(prefix))
	if container == "" || strings.Contains(container, storage.Delimiter) || !filepath.IsLocal(rel) {
		return "", &storage.StorageError{
			Op:        "ListPage",
			Backend:   storage.BackendFile,
			Container: container,
			Prefix:    prefix,
			Err:       fmt.Errorf("%w: path escapes root", storage.ErrAccessDenied),
		}
	}
	return filepath.Join(l.root, rel), nil
}

func wrapError(op, container, prefix string, err error) error {
	wrapped := &storage.StorageError{
		Op:        op,
		Backend:   storage.BackendFile,
		Container: container,
		Prefix:    prefix,
		Err:       err,
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		wrapped.Err = storage.Tag(storage.ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		wrapped.Err = storage.Tag(storage.ErrAccessDenied, err)
	}
	return wrapped
}
