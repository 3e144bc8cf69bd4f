package cart

import (
	"testing"

	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_Add(t *testing.T) {
	c := NewCart(uuid.New())
	p1 := uuid.New()

	require.NoError(t, c.Add(p1))
	err := c.Add(p1)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.Len(t, c.Items, 1)

	assert.ErrorIs(t, c.Add(uuid.Nil), shared.ErrInvalidArgument)
}

func TestCart_RemoveIsIdempotent(t *testing.T) {
	c := NewCart(uuid.New())
	p1, p2 := uuid.New(), uuid.New()
	require.NoError(t, c.Add(p1))
	require.NoError(t, c.Add(p2))

	c.Remove(p1)
	once := c.ProductIDs()
	c.Remove(p1)

	assert.Equal(t, once, c.ProductIDs())
	assert.Equal(t, []uuid.UUID{p2}, c.ProductIDs())
}

func TestCart_NoDuplicatesAcrossSequences(t *testing.T) {
	c := NewCart(uuid.New())
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for i := 0; i < 30; i++ {
		id := ids[i%len(ids)]
		if i%5 == 0 {
			c.Remove(id)
		} else {
			_ = c.Add(id)
		}
		seen := map[uuid.UUID]bool{}
		for _, it := range c.Items {
			assert.False(t, seen[it.ProductID], "duplicate product in cart")
			seen[it.ProductID] = true
		}
	}
}
