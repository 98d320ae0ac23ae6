package fetch

import "math"

// StdDev returns the standard deviation of the image's RGB pixel values on
// an 8-bit scale.  Near-zero values indicate a uniform image, which for sky
// cutouts usually means the position falls outside the survey footprint.
func (c *Cutout) StdDev() float64 {
	bounds := c.Image.Bounds()
	n := bounds.Dx() * bounds.Dy() * 3
	if n == 0 {
		return 0
	}

	var sum, sumSq float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := c.Image.At(x, y).RGBA()
			for _, v := range [3]uint32{r, g, b} {
				f := float64(v >> 8)
				sum += f
				sumSq += f * f
			}
		}
	}

	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}
