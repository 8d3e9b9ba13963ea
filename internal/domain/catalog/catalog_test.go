package catalog

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with trimmed name", func(t *testing.T) {
		p, err := NewProduct("  Pepper Powder ")
		require.NoError(t, err)
		assert.Equal(t, "Pepper Powder", p.Name)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewProduct(strings.Repeat("a", 201))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 200 characters")
	})

	t.Run("rename keeps id", func(t *testing.T) {
		p, err := NewProduct("Pepper")
		require.NoError(t, err)
		id := p.ID
		require.NoError(t, p.Rename("Black Pepper"))
		assert.Equal(t, id, p.ID)
		assert.Equal(t, "Black Pepper", p.Name)
	})
}

func TestNewPackage(t *testing.T) {
	t.Run("requires product id", func(t *testing.T) {
		_, err := NewPackage(uuid.Nil, "100mg")
		require.Error(t, err)
	})

	t.Run("creates package", func(t *testing.T) {
		productID := uuid.New()
		pkg, err := NewPackage(productID, "100mg")
		require.NoError(t, err)
		assert.Equal(t, productID, pkg.ProductID)
		assert.Equal(t, "100mg", pkg.Name)
	})
}

func TestNewBatch(t *testing.T) {
	product, err := NewProduct("Pepper Powder")
	require.NoError(t, err)
	pkg, err := NewPackage(product.ID, "100mg")
	require.NoError(t, err)

	t.Run("creates batch", func(t *testing.T) {
		b, err := NewBatch(product, pkg, "PE100MG", strPtr(" https://example.com/r.pdf "))
		require.NoError(t, err)
		assert.Equal(t, product.ID, b.ProductID)
		assert.Equal(t, pkg.ID, b.PackageID)
		require.True(t, b.HasReport())
		assert.Equal(t, "https://example.com/r.pdf", *b.ReportURL)
	})

	t.Run("blank report url is treated as none", func(t *testing.T) {
		b, err := NewBatch(product, pkg, "PE100MG", strPtr("  "))
		require.NoError(t, err)
		assert.False(t, b.HasReport())
	})

	t.Run("rejects package of another product", func(t *testing.T) {
		other, err := NewPackage(uuid.New(), "100mg")
		require.NoError(t, err)
		_, err = NewBatch(product, other, "PE100MG", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong")
	})

	t.Run("rejects malformed code", func(t *testing.T) {
		_, err := NewBatch(product, pkg, "pe100mg", nil)
		require.Error(t, err)
	})

	t.Run("replace report returns previous url", func(t *testing.T) {
		b, err := NewBatch(product, pkg, "PE100MG", strPtr("https://example.com/old.pdf"))
		require.NoError(t, err)
		previous := b.ReplaceReport(strPtr("https://example.com/new.pdf"))
		require.NotNil(t, previous)
		assert.Equal(t, "https://example.com/old.pdf", *previous)
		assert.Equal(t, "https://example.com/new.pdf", *b.ReportURL)
	})
}
