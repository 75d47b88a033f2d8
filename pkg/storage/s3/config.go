// Package s3 implements the storage listing contract for AWS S3 and
// S3-compatible stores.
package s3

import "fmt"

// Config configures an S3 lister.
//
// Authentication follows the AWS SDK v2 default chain unless explicit keys
// are given: environment, shared credentials, shared config with Profile,
// then instance/task roles.
//
// For S3-compatible stores (Ceph, Wasabi, R2) set Endpoint and usually
// ForcePathStyle.
type Config struct {
	// Region is the AWS region. Empty defers to environment/profile and then
	// DefaultAWSRegion when no Endpoint is set.
	Region string

	// Endpoint is a custom endpoint URL for S3-compatible stores.
	Endpoint string

	// Profile is the shared config profile name.
	Profile string

	// AccessKeyID is an explicit access key; SecretAccessKey must accompany it.
	AccessKeyID string

	// SecretAccessKey is the explicit secret key.
	SecretAccessKey string

	// ForcePathStyle puts the bucket in the path rather than the host.
	ForcePathStyle bool

	// MaxKeys is the page size for ListObjectsV2. Values over 1000 are clamped.
	MaxKeys int

	// LocationConcurrency bounds parallel GetBucketLocation calls.
	LocationConcurrency int
}

// DefaultMaxKeys is the default page size for listings.
const DefaultMaxKeys = 1000

// MaxAllowedKeys is the maximum page size allowed by S3.
const MaxAllowedKeys = 1000

// DefaultAWSRegion is the fallback region for AWS S3 when not specified.
const DefaultAWSRegion = "us-east-1"

// DefaultLocationConcurrency is used when LocationConcurrency is unset.
const DefaultLocationConcurrency = 8

// Validate checks that the configuration is coherent.
func (c *Config) Validate() error {
	if c.AccessKeyID != "" && c.SecretAccessKey == "" {
		return &ConfigError{Field: "SecretAccessKey", Message: "secret access key required when access key ID is set"}
	}
	if c.SecretAccessKey != "" && c.AccessKeyID == "" {
		return &ConfigError{Field: "AccessKeyID", Message: "access key ID required when secret access key is set"}
	}
	if c.MaxKeys < 0 {
		return &ConfigError{Field: "MaxKeys", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError indicates invalid configuration.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("s3 config: %s: %s", e.Field, e.Message)
}
