package storage

import (
	"context"
	"fmt"
)

// Client drains paginated listings from a Lister.
type Client struct {
	lister  Lister
	maxKeys int
}

// NewClient wraps lister. maxKeys <= 0 leaves the page size to the backend.
func NewClient(lister Lister, maxKeys int) *Client {
	return &Client{lister: lister, maxKeys: maxKeys}
}

// Backend reports the wrapped backend.
func (c *Client) Backend() Backend {
	return c.lister.Backend()
}

// ListContainers returns every container, following continuation tokens
// until exhausted.
func (c *Client) ListContainers(ctx context.Context) ([]Container, error) {
	var (
		out   []Container
		token string
		seen  = map[string]struct{}{}
	)
	for {
		page, err := c.lister.ListContainersPage(ctx, token)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Containers...)
		if page.ContinuationToken == "" {
			return out, nil
		}
		if _, dup := seen[page.ContinuationToken]; dup {
			return nil, &StorageError{Op: "ListContainers", Backend: c.lister.Backend(), Err: ErrPaginationLoop}
		}
		seen[page.ContinuationToken] = struct{}{}
		token = page.ContinuationToken
	}
}

// ListChildren lists one delimiter-bounded level under prefix, accumulating
// every page before returning.
func (c *Client) ListChildren(ctx context.Context, container, prefix string) (Listing, error) {
	if container == "" {
		return Listing{}, fmt.Errorf("list children: %w", ErrMissingContainer)
	}
	out := Listing{Container: container, Prefix: prefix}
	opts := ListPageOptions{
		Container: container,
		Prefix:    prefix,
		Delimiter: Delimiter,
		MaxKeys:   c.maxKeys,
	}
	seen := map[string]struct{}{}
	for {
		page, err := c.lister.ListPage(ctx, opts)
		if err != nil {
			return Listing{}, err
		}
		out.Prefixes = append(out.Prefixes, page.Prefixes...)
		out.Entries = append(out.Entries, page.Entries...)
		if page.ContinuationToken == "" {
			return out, nil
		}
		if _, dup := seen[page.ContinuationToken]; dup {
			return Listing{}, &StorageError{
				Op:        "ListChildren",
				Backend:   c.lister.Backend(),
				Container: container,
				Prefix:    prefix,
				Err:       ErrPaginationLoop,
			}
		}
		seen[page.ContinuationToken] = struct{}{}
		opts.ContinuationToken = page.ContinuationToken
	}
}

// Close releases the underlying lister.
func (c *Client) Close() error {
	return c.lister.Close()
}
