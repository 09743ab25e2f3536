package styletransfer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mobrahi/mimicryML/internal/domain"
	"github.com/mobrahi/mimicryML/internal/storage"
	"github.com/mobrahi/mimicryML/internal/styles"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	catalog := styles.NewCatalog(store)
	require.NoError(t, catalog.EnsureReferenceImages(context.Background(), zerolog.Nop()))

	m, err := LoadModel(catalog, 512, 95, zerolog.Nop())
	require.NoError(t, err)
	return m
}

// gradientJPEG renders a horizontal gradient photo stand-in.
func gradientJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), 120, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestStylizeProducesJPEG(t *testing.T) {
	m := newTestModel(t)

	out, err := m.Stylize(context.Background(), bytes.NewReader(gradientJPEG(t, 320, 240)), "vangogh")
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 320, 240), decoded.Bounds())
}

func TestStylizeDownscalesLargeImages(t *testing.T) {
	m := newTestModel(t)

	out, err := m.Stylize(context.Background(), bytes.NewReader(gradientJPEG(t, 2048, 1024)), "monet")
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 512, 256), decoded.Bounds())
}

func TestStylizeAcceptsPNG(t *testing.T) {
	m := newTestModel(t)

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 4), uint8(y * 4), 200, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out, err := m.Stylize(context.Background(), &buf, "picasso")
	require.NoError(t, err)
	_, err = jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
}

func TestStylizeDeterministic(t *testing.T) {
	m := newTestModel(t)
	input := gradientJPEG(t, 200, 200)

	a, err := m.Stylize(context.Background(), bytes.NewReader(input), "kandinsky")
	require.NoError(t, err)
	b, err := m.Stylize(context.Background(), bytes.NewReader(input), "kandinsky")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestStylizeRejectsUnknownStyle(t *testing.T) {
	m := newTestModel(t)

	_, err := m.Stylize(context.Background(), bytes.NewReader(gradientJPEG(t, 64, 64)), "warhol")
	require.ErrorIs(t, err, domain.ErrInvalidStyle)
}

func TestStylizeRejectsGarbage(t *testing.T) {
	m := newTestModel(t)

	_, err := m.Stylize(context.Background(), strings.NewReader("definitely not an image"), "vangogh")
	require.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestStylizeFlatImage(t *testing.T) {
	m := newTestModel(t)

	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.SetRGBA(x, y, color.RGBA{128, 128, 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))

	out, err := m.Stylize(context.Background(), &buf, "monet")
	require.NoError(t, err)
	_, err = jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
}

func TestApplyStatsMatchesTarget(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(50 + x), uint8(80 + y/2), uint8(30 + (x+y)/2), 255})
		}
	}
	target := channelStats{
		mean: [3]float64{180, 90, 60},
		std:  [3]float64{20, 15, 10},
	}

	out := applyStats(img, computeStats(img), target)
	got := computeStats(out)

	for i := 0; i < 3; i++ {
		require.InDelta(t, target.mean[i], got.mean[i], 2.0, "channel %d mean", i)
		require.InDelta(t, target.std[i], got.std[i], 2.0, "channel %d std", i)
	}
}

func TestScaleDownKeepsSmallImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 60))
	require.Same(t, image.Image(img), scaleDown(img, 512))

	scaled := scaleDown(img, 50)
	require.Equal(t, image.Rect(0, 0, 50, 30), scaled.Bounds())
}

func TestStylizeCancelledContext(t *testing.T) {
	m := newTestModel(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Stylize(ctx, bytes.NewReader(gradientJPEG(t, 64, 64)), "vangogh")
	require.ErrorIs(t, err, context.Canceled)
}
