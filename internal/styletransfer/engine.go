// Package styletransfer applies a pre-trained artistic style to photographs.
//
// The model here is an analytic one: each style reference is reduced at load
// time to per-channel color statistics, and stylization aligns the content
// image's channel distribution to the reference's. The transformation is
// deterministic for a given input and style.
package styletransfer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"math"
	"time"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/mobrahi/mimicryML/internal/domain"
	"github.com/mobrahi/mimicryML/internal/infra"
	"github.com/mobrahi/mimicryML/internal/styles"
)

// Engine is the transformation contract the orchestrator depends on.
type Engine interface {
	// Stylize reads one source image and returns the stylized JPEG bytes.
	Stylize(ctx context.Context, src io.Reader, styleName string) ([]byte, error)
}

type channelStats struct {
	mean [3]float64
	std  [3]float64
}

// Model holds the precomputed statistics for every style in the catalog.
// Loading happens once at startup; Stylize is safe for concurrent use.
type Model struct {
	stats   map[string]channelStats
	maxDim  int
	quality int
}

// LoadModel decodes every style reference and precomputes its statistics.
func LoadModel(catalog *styles.Catalog, maxDim, quality int, log infra.Logger) (*Model, error) {
	start := time.Now()
	m := &Model{
		stats:   make(map[string]channelStats),
		maxDim:  maxDim,
		quality: quality,
	}
	for _, name := range catalog.Names() {
		ref, err := catalog.ReferenceImage(name)
		if err != nil {
			return nil, fmt.Errorf("load style %s: %w", name, err)
		}
		m.stats[name] = computeStats(ref)
	}
	log.Info().
		Int("styles", len(m.stats)).
		Dur("elapsed", time.Since(start)).
		Msg("style model loaded")
	return m, nil
}

// Stylize decodes src, scales it down to the model's working size and aligns
// its color distribution to the requested style.
func (m *Model) Stylize(ctx context.Context, src io.Reader, styleName string) ([]byte, error) {
	stats, ok := m.stats[styleName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidStyle, styleName)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := toRGBA(scaleDown(img, m.maxDim))
	out := applyStats(content, computeStats(content), stats)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: m.quality}); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", domain.ErrTransform, err)
	}
	return buf.Bytes(), nil
}

// scaleDown shrinks img so its longer side is at most maxDim. Smaller images
// pass through untouched.
func scaleDown(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}
	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	dw := int(math.Round(float64(w) * scale))
	dh := int(math.Round(float64(h) * scale))
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

func computeStats(img image.Image) channelStats {
	b := img.Bounds()
	n := float64(b.Dx() * b.Dy())
	if n == 0 {
		return channelStats{std: [3]float64{1, 1, 1}}
	}

	var sum, sumSq [3]float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			for i, v := range [3]float64{float64(r >> 8), float64(g >> 8), float64(bb >> 8)} {
				sum[i] += v
				sumSq[i] += v * v
			}
		}
	}

	var s channelStats
	for i := 0; i < 3; i++ {
		s.mean[i] = sum[i] / n
		variance := sumSq[i]/n - s.mean[i]*s.mean[i]
		if variance < 0 {
			variance = 0
		}
		s.std[i] = math.Sqrt(variance)
	}
	return s
}

// applyStats shifts and scales each channel so the content distribution
// matches the style distribution. A flat content channel collapses onto the
// style mean instead of dividing by zero.
func applyStats(content *image.RGBA, from, to channelStats) *image.RGBA {
	var scale [3]float64
	for i := 0; i < 3; i++ {
		if from.std[i] < 1e-6 {
			scale[i] = 0
		} else {
			scale[i] = to.std[i] / from.std[i]
		}
	}

	b := content.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := content.RGBAAt(x, y)
			out.SetRGBA(x, y, color.RGBA{
				R: clampByte((float64(c.R)-from.mean[0])*scale[0] + to.mean[0]),
				G: clampByte((float64(c.G)-from.mean[1])*scale[1] + to.mean[1]),
				B: clampByte((float64(c.B)-from.mean[2])*scale[2] + to.mean[2]),
				A: 255,
			})
		}
	}
	return out
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

var _ Engine = (*Model)(nil)
