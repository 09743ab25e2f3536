package styles

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"
	"strconv"

	"github.com/mobrahi/mimicryML/internal/infra"
)

const referenceDim = 512

// EnsureReferenceImages synthesizes a placeholder reference image for every
// style whose file is missing from the store. Real artwork dropped into the
// style directory (see cmd/fetchstyles) always wins; synthesis only fills
// the gaps so a fresh checkout can transform images immediately.
func (c *Catalog) EnsureReferenceImages(ctx context.Context, log infra.Logger) error {
	for _, s := range catalog {
		key := referenceKey(s.Name)
		if c.store.Exists(key) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		img := renderReference(s.Name)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return fmt.Errorf("encode %s reference: %w", s.Name, err)
		}
		path, err := c.store.Write(ctx, key, buf.Bytes())
		if err != nil {
			return fmt.Errorf("write %s reference: %w", s.Name, err)
		}
		log.Info().Str("style", s.Name).Str("path", path).Msg("synthesized style reference")
	}
	return nil
}

// ReferenceImage loads and decodes the reference image for a style.
func (c *Catalog) ReferenceImage(name string) (image.Image, error) {
	f, err := c.store.Open(referenceKey(name))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s reference: %w", name, err)
	}
	return img, nil
}

func renderReference(name string) image.Image {
	seed := deterministicSeed("style-reference", name)
	switch name {
	case "vangogh":
		return renderSwirls(seed)
	case "picasso":
		return renderFacets(seed)
	case "monet":
		return renderWash(seed)
	case "kandinsky":
		return renderShapes(seed)
	default:
		return renderWash(seed)
	}
}

// renderSwirls paints a night-sky field of concentric swirls with a few
// bright stars.
func renderSwirls(seed string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, referenceDim, referenceDim))
	palette := []color.RGBA{
		{25, 25, 112, 255},
		{45, 65, 150, 255},
		{255, 215, 0, 255},
		{240, 240, 180, 255},
	}
	rng := seedValue(seed)
	phase := float64(nextRand(&rng)%628) / 100

	cx, cy := float64(referenceDim)/2, float64(referenceDim)/2
	for y := 0; y < referenceDim; y++ {
		for x := 0; x < referenceDim; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			r := math.Hypot(dx, dy)
			theta := math.Atan2(dy, dx)
			v := math.Sin(r/14 + 3*theta + phase)
			switch {
			case v > 0.82:
				img.Set(x, y, palette[2])
			case v > 0.55:
				img.Set(x, y, palette[3])
			case v > -0.4:
				img.Set(x, y, palette[1])
			default:
				img.Set(x, y, palette[0])
			}
		}
	}

	for i := 0; i < 7; i++ {
		x := int(nextRand(&rng) % referenceDim)
		y := int(nextRand(&rng) % (referenceDim / 2))
		fillCircle(img, x, y, 5+int(nextRand(&rng)%6), palette[2])
	}
	return img
}

// renderFacets covers a warm canvas with overlapping blocks split by heavy
// dark diagonals.
func renderFacets(seed string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, referenceDim, referenceDim))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{222, 205, 175, 255}}, image.Point{}, draw.Src)

	palette := []color.RGBA{
		{178, 34, 34, 255},
		{70, 90, 160, 255},
		{218, 165, 32, 255},
		{80, 70, 60, 255},
	}
	rng := seedValue(seed)
	for i := 0; i < 8; i++ {
		x0 := int(nextRand(&rng) % referenceDim)
		y0 := int(nextRand(&rng) % referenceDim)
		w := 60 + int(nextRand(&rng)%160)
		h := 60 + int(nextRand(&rng)%160)
		block := image.Rect(x0, y0, minInt(referenceDim, x0+w), minInt(referenceDim, y0+h))
		draw.Draw(img, block, &image.Uniform{palette[i%len(palette)]}, image.Point{}, draw.Over)
	}

	dark := color.RGBA{30, 30, 30, 255}
	for i := 0; i < 4; i++ {
		offset := int(nextRand(&rng) % referenceDim)
		for y := 0; y < referenceDim; y++ {
			for t := 0; t < 3; t++ {
				x := (offset + y + t) % referenceDim
				img.Set(x, y, dark)
			}
		}
	}
	return img
}

// renderWash blends pastel bands with scattered light dabs.
func renderWash(seed string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, referenceDim, referenceDim))
	stops := []color.RGBA{
		{176, 224, 230, 255},
		{152, 200, 180, 255},
		{230, 190, 200, 255},
		{200, 215, 235, 255},
	}
	for y := 0; y < referenceDim; y++ {
		pos := float64(y) / referenceDim * float64(len(stops)-1)
		i := minInt(int(pos), len(stops)-2)
		c := lerpColor(stops[i], stops[i+1], pos-float64(i))
		for x := 0; x < referenceDim; x++ {
			img.Set(x, y, c)
		}
	}

	rng := seedValue(seed)
	dab := color.RGBA{250, 250, 235, 255}
	for i := 0; i < 160; i++ {
		x := int(nextRand(&rng) % referenceDim)
		y := int(nextRand(&rng) % referenceDim)
		fillCircle(img, x, y, 2, dab)
	}
	return img
}

// renderShapes scatters bold primary circles and straight bars on white.
func renderShapes(seed string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, referenceDim, referenceDim))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{245, 245, 240, 255}}, image.Point{}, draw.Src)

	palette := []color.RGBA{
		{200, 30, 40, 255},
		{30, 60, 180, 255},
		{240, 200, 20, 255},
		{20, 20, 20, 255},
	}
	rng := seedValue(seed)
	for i := 0; i < 6; i++ {
		x := int(nextRand(&rng) % referenceDim)
		y := int(nextRand(&rng) % referenceDim)
		fillCircle(img, x, y, 30+int(nextRand(&rng)%60), palette[i%len(palette)])
	}
	for i := 0; i < 3; i++ {
		y0 := int(nextRand(&rng) % referenceDim)
		bar := image.Rect(0, y0, referenceDim, minInt(referenceDim, y0+8))
		draw.Draw(img, bar, &image.Uniform{palette[3]}, image.Point{}, draw.Over)
	}
	return img
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	b := img.Bounds()
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if !image.Pt(x, y).In(b) {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, c)
			}
		}
	}
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 255}
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(fmt.Sprintf("%v", part)))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

func seedValue(seed string) uint64 {
	v, err := strconv.ParseUint(seed, 16, 64)
	if err != nil || v == 0 {
		return 0x9e3779b97f4a7c15
	}
	return v
}

// nextRand advances a xorshift64 state.
func nextRand(state *uint64) uint64 {
	v := *state
	v ^= v << 13
	v ^= v >> 7
	v ^= v << 17
	*state = v
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
