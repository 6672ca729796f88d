package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/estate-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"property not found", store.ErrPropertyNotFound, true},
		{"category not found", store.ErrCategoryNotFound, true},
		{"wrapped", fmt.Errorf("loading facts: %w", store.ErrPropertyNotFound), true},
		{"inside store error", store.NewStoreError("property", "get", "missing", store.ErrPropertyNotFound), true},
		{"duplicate", store.ErrCategoryExists, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, store.IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	assert.True(t, store.IsDuplicateError(store.ErrCategoryExists))
	assert.True(t, store.IsDuplicateError(fmt.Errorf("create: %w", store.ErrDuplicate)))
	assert.False(t, store.IsDuplicateError(store.ErrPropertyNotFound))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := store.NewStoreError("property", "persist_content", "update failed", cause)
	assert.Equal(t, "persist_content operation on property failed: update failed: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := store.NewStoreError("category", "create", "name taken", nil)
	assert.Equal(t, "create operation on category failed: name taken", bare.Error())
}
