package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTag(t *testing.T) {
	cause := errors.New("InvalidAccessKeyId: the key does not exist")
	err := Tag(ErrInvalidCredentials, cause)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invalid credentials: InvalidAccessKeyId: the key does not exist", err.Error())

	assert.Same(t, ErrNotFound, Tag(ErrNotFound, nil))
	assert.Same(t, ErrNotFound, Tag(ErrNotFound, ErrNotFound))
}

func TestStorageErrorKeepsDetail(t *testing.T) {
	err := &StorageError{
		Op:      "ListBuckets",
		Backend: BackendS3,
		Err:     Tag(ErrAccessDenied, errors.New("AccessDenied: request id 4442587FB7D0A2F9")),
	}
	assert.True(t, IsAccessDenied(err))
	assert.Contains(t, err.Error(), "request id 4442587FB7D0A2F9")
}
