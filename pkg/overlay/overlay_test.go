package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 60, G: 60, B: 60, A: 255})
		}
	}
	return img
}

func countColor(img image.Image, want color.NRGBA) int {
	n := 0
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if uint8(r>>8) == want.R && uint8(g>>8) == want.G &&
				uint8(b>>8) == want.B && uint8(a>>8) == want.A {
				n++
			}
		}
	}
	return n
}

func TestAddScaleBarDrawsBar(t *testing.T) {
	src := grayImage(256, 256)
	out := AddScaleBar(src, 1.0)

	assert.Equal(t, src.Bounds(), out.Bounds())

	// A white bar appeared somewhere.
	white := color.NRGBA{255, 255, 255, 255}
	assert.Greater(t, countColor(out, white), 10)

	// The input was not modified.
	assert.Zero(t, countColor(src, white))
}

func TestAddScaleBarZeroFOV(t *testing.T) {
	src := grayImage(64, 64)
	out := AddScaleBar(src, 0)

	// Nothing to scale against; the image passes through untouched.
	white := color.NRGBA{255, 255, 255, 255}
	assert.Zero(t, countColor(out, white))
}

func TestAddScaleBarTinyImage(t *testing.T) {
	// Must not panic or draw outside bounds on degenerate sizes.
	for _, size := range []int{1, 2, 8} {
		out := AddScaleBar(grayImage(size, size), 1.0)
		assert.Equal(t, size, out.Bounds().Dx())
	}
}

func TestAddCrosshair(t *testing.T) {
	src := grayImage(128, 128)
	out := AddCrosshair(src)

	lime := color.NRGBA{0, 255, 0, 255}
	assert.Greater(t, countColor(out, lime), 4)
	assert.Zero(t, countColor(src, lime))

	// The exact center stays clear so the target is not obscured.
	r, g, b, _ := out.At(64, 64).RGBA()
	assert.Equal(t, uint8(60), uint8(r>>8))
	assert.Equal(t, uint8(60), uint8(g>>8))
	assert.Equal(t, uint8(60), uint8(b>>8))
}

func TestAnnotate(t *testing.T) {
	src := grayImage(256, 256)

	out := Annotate(src, 1.0, true, true)
	assert.Greater(t, countColor(out, color.NRGBA{255, 255, 255, 255}), 0)
	assert.Greater(t, countColor(out, color.NRGBA{0, 255, 0, 255}), 0)

	// With everything off the input is returned as-is.
	same := Annotate(src, 1.0, false, false)
	assert.Equal(t, image.Image(src), same)
}

func TestScaleBarSnapsToRoundValues(t *testing.T) {
	// Around 20% of a 1' field is 12"; the nearest round value is 10".
	// We can't read the label back, only that drawing succeeds across a
	// range of fields without panicking.
	for _, fov := range []float64{0.1, 0.5, 1, 5, 15, 60, 240} {
		out := AddScaleBar(grayImage(256, 256), fov)
		require.NotNil(t, out)
	}
}
