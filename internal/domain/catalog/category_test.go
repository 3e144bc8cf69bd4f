package catalog

import (
	"strings"
	"testing"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategory(t *testing.T) {
	t.Run("creates category with trimmed name", func(t *testing.T) {
		category, err := NewCategory("  Tablets ", nil)
		require.NoError(t, err)
		require.NotNil(t, category)

		assert.Equal(t, "Tablets", category.Name)
		assert.Equal(t, "tablets", category.NameKey())
		assert.Nil(t, category.Logo)
		assert.NotEmpty(t, category.ID)
		assert.False(t, category.CreatedAt.IsZero())
	})

	t.Run("keeps logo asset", func(t *testing.T) {
		category, err := NewCategory("Syrups", &asset.Asset{URL: "https://cdn/x.png", Ref: "categories/x.png"})
		require.NoError(t, err)
		require.NotNil(t, category.Logo)
		assert.Equal(t, "categories/x.png", category.Logo.Ref)
	})

	t.Run("drops zero logo", func(t *testing.T) {
		category, err := NewCategory("Syrups", &asset.Asset{})
		require.NoError(t, err)
		assert.Nil(t, category.Logo)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewCategory("   ", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewCategory(strings.Repeat("a", 101), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 100 characters")
	})
}

func TestCategoryNameKey(t *testing.T) {
	assert.Equal(t, CategoryNameKey("TABLETS"), CategoryNameKey(" tablets "))
	assert.NotEqual(t, CategoryNameKey("tablet"), CategoryNameKey("tablets"))
}
