package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/adrianmross/objnav/pkg/config"
	"github.com/adrianmross/objnav/pkg/storage"
)

// fakeStorage serves fixed listings and records how it was opened.
type fakeStorage struct {
	backend    storage.Backend
	containers []storage.Container
	listings   map[string]storage.Listing
	err        error

	opened config.Context
	closed bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		backend: storage.BackendS3,
		containers: []storage.Container{
			{ID: "logs", Location: "us-east-1"},
			{ID: "media", Location: "eu-west-1"},
		},
		listings: map[string]storage.Listing{
			"logs/": {
				Prefixes: []string{"2024/", "2025/"},
				Entries: []storage.Entry{
					{Key: "app.log.gz", Size: 1536, LastModified: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
					{Key: "README"},
				},
			},
		},
	}
}

func (f *fakeStorage) Backend() storage.Backend { return f.backend }

func (f *fakeStorage) ListContainers(context.Context) ([]storage.Container, error) {
	return f.containers, f.err
}

func (f *fakeStorage) ListChildren(_ context.Context, container, prefix string) (storage.Listing, error) {
	l := f.listings[container+"/"+prefix]
	l.Container, l.Prefix = container, prefix
	return l, f.err
}

func (f *fakeStorage) Close() error {
	f.closed = true
	return nil
}

// stubStorage routes openStorage to f for the duration of the test.
func stubStorage(t *testing.T, f *fakeStorage) {
	t.Helper()
	original := openStorage
	openStorage = func(_ context.Context, c config.Context, _ config.Options) (storageService, error) {
		f.opened = c
		f.backend = c.Backend
		return f, nil
	}
	t.Cleanup(func() { openStorage = original })
}

// isolate keeps tests away from the real home directory and log file.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OBJNAV_LOG_FILE", "-")
	return home
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
