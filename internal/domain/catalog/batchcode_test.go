package catalog

import (
	"testing"

	"github.com/batchtrack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDeriveBatchCode(t *testing.T) {
	t.Run("derives from product prefix and package name", func(t *testing.T) {
		code, err := DeriveBatchCode("Pepper Powder", "100mg")
		require.NoError(t, err)
		assert.Equal(t, "PE100MG", code)

		code, err = DeriveBatchCode("Turmeric", "500mg")
		require.NoError(t, err)
		assert.Equal(t, "TU500MG", code)
	})

	t.Run("is deterministic", func(t *testing.T) {
		first, err := DeriveBatchCode("Pepper Powder", "250mg")
		require.NoError(t, err)
		second, err := DeriveBatchCode("Pepper Powder", "250mg")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("strips non alphanumeric characters from package", func(t *testing.T) {
		code, err := DeriveBatchCode("turmeric", " 1.5 kg (bulk) ")
		require.NoError(t, err)
		assert.Equal(t, "TU15KGBULK", code)
	})

	t.Run("fails on empty names", func(t *testing.T) {
		_, err := DeriveBatchCode("  ", "100mg")
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))

		_, err = DeriveBatchCode("Pepper", "")
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("fails when result is not a valid code", func(t *testing.T) {
		_, err := DeriveBatchCode("P", "100mg")
		require.Error(t, err)

		_, err = DeriveBatchCode("Pepper", "---")
		require.Error(t, err)
	})
}

func TestValidateBatchCodeFormat(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"PE100MG", true},
		{"TU500MG", true},
		{"ABC", true},
		{"pe100mg", false},
		{"PE", false},
		{"P1", false},
		{"1E100MG", false},
		{"PE100MG!", false},
		{"PE-100", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateBatchCodeFormat(tt.code))
		})
	}
}

func TestResolveBatchCode(t *testing.T) {
	t.Run("derives when no code given", func(t *testing.T) {
		code, err := ResolveBatchCode(nil, "Pepper Powder", "100mg")
		require.NoError(t, err)
		assert.Equal(t, "PE100MG", code)
	})

	t.Run("normalizes explicit code", func(t *testing.T) {
		code, err := ResolveBatchCode(strPtr("  pe100mg2 "), "Pepper Powder", "100mg")
		require.NoError(t, err)
		assert.Equal(t, "PE100MG2", code)
	})

	t.Run("rejects malformed explicit code", func(t *testing.T) {
		_, err := ResolveBatchCode(strPtr("PE-100"), "Pepper Powder", "100mg")
		require.Error(t, err)
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("rejects empty explicit code", func(t *testing.T) {
		_, err := ResolveBatchCode(strPtr("   "), "Pepper Powder", "100mg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})
}
