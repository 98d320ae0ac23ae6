// Package overlay draws annotations on sky cutouts: an angular scale bar
// and a center crosshair.  Inputs are never modified; annotated copies are
// returned.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// niceArcsecValues are the round angular lengths a scale bar may take.
var niceArcsecValues = []float64{1, 2, 5, 10, 15, 20, 30, 60, 120, 180, 300, 600, 1200, 1800, 3600}

// barFraction is the target scale bar length as a fraction of image width.
const barFraction = 0.2

// Annotate adds the standard annotations to an image.
func Annotate(img image.Image, fovArcmin float64, scaleBar, crosshair bool) image.Image {
	result := img
	if scaleBar {
		result = AddScaleBar(result, fovArcmin)
	}
	if crosshair {
		result = AddCrosshair(result)
	}
	return result
}

// AddScaleBar draws a labeled angular scale bar in the bottom-right corner.
// The bar length snaps to a round angular size (e.g. 10", 1') close to 20%
// of the image width.
func AddScaleBar(img image.Image, fovArcmin float64) image.Image {
	out := imaging.Clone(img)
	w := out.Bounds().Dx()
	h := out.Bounds().Dy()
	if w == 0 || h == 0 || fovArcmin <= 0 {
		return out
	}

	// Snap to the nice value closest to the target length.
	targetArcsec := fovArcmin * 60 * barFraction
	barArcsec := niceArcsecValues[0]
	for _, v := range niceArcsecValues {
		if abs(v-targetArcsec) < abs(barArcsec-targetArcsec) {
			barArcsec = v
		}
	}

	arcsecPerPixel := fovArcmin * 60 / float64(w)
	barPx := int(barArcsec / arcsecPerPixel)
	barPx = clamp(barPx, 10, int(float64(w)*0.4))

	label := fmt.Sprintf("%.0f\"", barArcsec)
	if barArcsec >= 60 {
		label = fmt.Sprintf("%.0f'", barArcsec/60)
	}

	margin := w / 20
	barH := max(3, h/125)
	y := h - margin - barH
	xEnd := w - margin
	xStart := xEnd - barPx

	white := color.NRGBA{255, 255, 255, 255}
	black := color.NRGBA{0, 0, 0, 255}

	// Dark shadow behind the bar for contrast on bright fields.
	shadow := max(1, barH/2)
	fillRect(out, xStart-shadow, y-shadow, xEnd+shadow, y+barH+shadow, black)
	fillRect(out, xStart, y, xEnd, y+barH, white)

	// End ticks.
	tickH := barH * 3
	tickW := max(1, barH/2)
	fillRect(out, xStart, y-tickH/2, xStart+tickW, y+barH+tickH/2, white)
	fillRect(out, xEnd-tickW, y-tickH/2, xEnd, y+barH+tickH/2, white)

	drawLabel(out, (xStart+xEnd)/2, y-h/25, label, white, black)
	return out
}

// AddCrosshair draws a crosshair with a small central gap at the image
// center.
func AddCrosshair(img image.Image) image.Image {
	out := imaging.Clone(img)
	w := out.Bounds().Dx()
	h := out.Bounds().Dy()
	if w == 0 || h == 0 {
		return out
	}

	cx, cy := w/2, h/2
	arm := min(w, h) / 20
	gap := max(2, arm/4)
	lime := color.NRGBA{0, 255, 0, 255}

	fillRect(out, cx-arm, cy, cx-gap, cy+1, lime)
	fillRect(out, cx+gap, cy, cx+arm, cy+1, lime)
	fillRect(out, cx, cy-arm, cx+1, cy-gap, lime)
	fillRect(out, cx, cy+gap, cx+1, cy+arm, lime)
	return out
}

func fillRect(img *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	bounds := img.Bounds()
	x0 = clamp(x0, bounds.Min.X, bounds.Max.X)
	x1 = clamp(x1, bounds.Min.X, bounds.Max.X)
	y0 = clamp(y0, bounds.Min.Y, bounds.Max.Y)
	y1 = clamp(y1, bounds.Min.Y, bounds.Max.Y)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// drawLabel renders centered text with a one-pixel drop shadow.
func drawLabel(img *image.NRGBA, cx, cy int, text string, fg, shadow color.NRGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	x := cx - width/2
	y := cy + face.Metrics().Ascent.Ceil()/2

	for _, offset := range []struct {
		dx, dy int
		c      color.NRGBA
	}{{1, 1, shadow}, {0, 0, fg}} {
		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(offset.c),
			Face: face,
			Dot:  fixed.P(x+offset.dx, y+offset.dy),
		}
		drawer.DrawString(text)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
