package styles

import (
	"context"
	"image"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mobrahi/mimicryML/internal/storage"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewCatalog(store)
}

func TestCatalogContents(t *testing.T) {
	c := newTestCatalog(t)

	require.Equal(t, []string{"vangogh", "picasso", "monet", "kandinsky"}, c.Names())

	all := c.All()
	require.Len(t, all, 4)
	for _, s := range all {
		require.NotEmpty(t, s.Title)
		require.NotEmpty(t, s.Description)
		require.NotEmpty(t, s.ReferencePath)
	}

	s, ok := c.Get("monet")
	require.True(t, ok)
	require.Equal(t, "Monet - Impressionism", s.Title)

	_, ok = c.Get("warhol")
	require.False(t, ok)
}

func TestEnsureReferenceImages(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	require.NoError(t, c.EnsureReferenceImages(ctx, zerolog.Nop()))

	for _, name := range c.Names() {
		img, err := c.ReferenceImage(name)
		require.NoError(t, err, "style %s", name)
		require.Equal(t, image.Rect(0, 0, referenceDim, referenceDim), img.Bounds())
	}

	// A second pass is a no-op and must not fail.
	require.NoError(t, c.EnsureReferenceImages(ctx, zerolog.Nop()))
}

func TestRenderReferenceDeterministic(t *testing.T) {
	for _, name := range []string{"vangogh", "picasso", "monet", "kandinsky"} {
		a := renderReference(name)
		b := renderReference(name)
		require.Equal(t, a.(*image.RGBA).Pix, b.(*image.RGBA).Pix, "style %s", name)
	}
}

func TestReferenceImageMissing(t *testing.T) {
	c := newTestCatalog(t)
	_, err := c.ReferenceImage("vangogh")
	require.Error(t, err)
}
