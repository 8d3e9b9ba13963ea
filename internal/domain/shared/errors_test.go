package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError(t *testing.T) {
	t.Run("matches sentinel by code", func(t *testing.T) {
		err := NewNotFoundError("Batch not found")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrConflict))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("find batch: %w", NewConflictError("Batch code already exists"))
		assert.True(t, IsConflict(err))
		assert.Equal(t, CodeConflict, KindOf(err))
	})

	t.Run("unwraps cause", func(t *testing.T) {
		cause := errors.New("bucket unreachable")
		err := NewUploadError("Failed to upload report", cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "Failed to upload report: bucket unreachable", err.Error())
	})

	t.Run("plain errors are internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, KindOf(errors.New("boom")))
		assert.False(t, IsNotFound(errors.New("boom")))
	})

	t.Run("validation helper", func(t *testing.T) {
		assert.True(t, IsValidation(NewValidationError("Email is required")))
	})

	t.Run("unauthorized kind", func(t *testing.T) {
		assert.Equal(t, CodeUnauthorized, KindOf(NewUnauthorizedError("Invalid username or password")))
	})
}
