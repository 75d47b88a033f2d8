package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"github.com/adrianmross/objnav/pkg/storage"
)

// Config represents the persisted state for objnav.
type Config struct {
	Options        Options   `yaml:"options"`
	Contexts       []Context `yaml:"contexts"`
	CurrentContext string    `yaml:"current_context"`
}

// Options holds global settings.
type Options struct {
	LogFile           string        `yaml:"log_file"`
	LogLevel          string        `yaml:"log_level"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	TickInterval      time.Duration `yaml:"tick_interval"`
	MaxKeys           int           `yaml:"max_keys"`
	RequestsPerSecond float64       `yaml:"requests_per_second,omitempty"`
}

// Context describes one storage endpoint to browse.
type Context struct {
	Name        string          `yaml:"name"`
	Backend     storage.Backend `yaml:"backend"`
	Profile     string          `yaml:"profile,omitempty"`
	Region      string          `yaml:"region,omitempty"`
	Endpoint    string          `yaml:"endpoint,omitempty"`
	PathStyle   bool            `yaml:"path_style,omitempty"`
	Namespace   string          `yaml:"namespace,omitempty"`
	Compartment string          `yaml:"compartment,omitempty"`
	Root        string          `yaml:"root,omitempty"`
	Notes       string          `yaml:"notes,omitempty"`
}

var (
	ErrContextNotFound = errors.New("context not found")
	ErrDuplicateName   = errors.New("context name already exists")
)

const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultTickInterval = 500 * time.Millisecond
	DefaultMaxKeys      = 1000
	DefaultLogLevel     = "info"
)

// DefaultConfig returns the initial config.
func DefaultConfig(home string) Config {
	return Config{
		Options: Options{
			LogFile:      filepath.Join(home, ".objnav", "objnav.log"),
			LogLevel:     DefaultLogLevel,
			FetchTimeout: DefaultFetchTimeout,
			TickInterval: DefaultTickInterval,
			MaxKeys:      DefaultMaxKeys,
		},
		Contexts:       []Context{},
		CurrentContext: "",
	}
}

// WithDefaults fills unset options from DefaultConfig.
func (o Options) WithDefaults(home string) Options {
	d := DefaultConfig(home).Options
	if o.LogFile == "" {
		o.LogFile = d.LogFile
	}
	if o.LogLevel == "" {
		o.LogLevel = d.LogLevel
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = d.FetchTimeout
	}
	if o.TickInterval <= 0 {
		o.TickInterval = d.TickInterval
	}
	if o.MaxKeys <= 0 {
		o.MaxKeys = d.MaxKeys
	}
	return o
}

// EnsureDefaultConfig creates a default config file if it does not exist.
func EnsureDefaultConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return nil // already exists
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return Save(path, DefaultConfig(home))
}

// Load reads config with a file lock for safety.
func Load(path string) (Config, error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return Config{}, err
	}
	defer lock.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, returning the default config when the file does
// not exist.
func LoadOrDefault(path, home string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(home), nil
	}
	return Load(path)
}

// Save writes config with a file lock.
func Save(path string, cfg Config) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetContext finds a context by name.
func (c Config) GetContext(name string) (Context, error) {
	for _, ctx := range c.Contexts {
		if ctx.Name == name {
			return ctx, nil
		}
	}
	return Context{}, ErrContextNotFound
}

// Resolve returns the named context, or the current one when name is empty.
// With neither it returns an unnamed S3 context on the default credential
// chain.
func (c Config) Resolve(name string) (Context, error) {
	if name == "" {
		name = c.CurrentContext
	}
	if name == "" {
		return Context{Backend: storage.BackendS3}, nil
	}
	ctx, err := c.GetContext(name)
	if err != nil {
		return Context{}, fmt.Errorf("%w: %s", err, name)
	}
	return ctx, nil
}

// UpsertContext adds or updates a context.
func (c *Config) UpsertContext(ctx Context) error {
	for i, existing := range c.Contexts {
		if existing.Name == ctx.Name {
			c.Contexts[i] = ctx
			return nil
		}
	}
	c.Contexts = append(c.Contexts, ctx)
	if c.CurrentContext == "" {
		c.CurrentContext = ctx.Name
	}
	return nil
}

// AddContext adds a context, refusing to replace an existing name.
func (c *Config) AddContext(ctx Context) error {
	if _, err := c.GetContext(ctx.Name); err == nil {
		return fmt.Errorf("%w: %s", ErrDuplicateName, ctx.Name)
	}
	return c.UpsertContext(ctx)
}

// DeleteContext removes a context by name.
func (c *Config) DeleteContext(name string) error {
	idx := -1
	for i, ctx := range c.Contexts {
		if ctx.Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrContextNotFound
	}
	c.Contexts = append(c.Contexts[:idx], c.Contexts[idx+1:]...)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return nil
}

// Validate checks the fields each backend needs.
func (ctx Context) Validate() error {
	if ctx.Name == "" {
		return fmt.Errorf("context name is required")
	}
	switch ctx.Backend {
	case storage.BackendS3, storage.BackendOCI:
	case storage.BackendMinio:
		if ctx.Endpoint == "" {
			return fmt.Errorf("context %s: minio backend requires endpoint", ctx.Name)
		}
	case storage.BackendFile:
		if ctx.Root == "" {
			return fmt.Errorf("context %s: file backend requires root", ctx.Name)
		}
	case "":
		return fmt.Errorf("context %s: backend is required", ctx.Name)
	default:
		return fmt.Errorf("context %s: unknown backend %q", ctx.Name, ctx.Backend)
	}
	return nil
}
