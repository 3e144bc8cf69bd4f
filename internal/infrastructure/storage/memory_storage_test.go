package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("https://cdn.test/")

	a, err := s.Store(ctx, asset.File{Name: "Logo.PNG", ContentType: "image/png", Content: strings.NewReader("png")})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(a.Ref, ".png"))
	assert.Equal(t, "https://cdn.test/"+a.Ref, a.URL)

	data, ok := s.Get(a.Ref)
	require.True(t, ok)
	assert.Equal(t, "png", string(data))

	require.NoError(t, s.Delete(ctx, a.Ref))
	assert.ErrorIs(t, s.Delete(ctx, a.Ref), asset.ErrObjectNotFound)
	assert.Zero(t, s.Len())

	_, err = s.Store(ctx, asset.File{Name: "empty"})
	assert.Error(t, err)
}
