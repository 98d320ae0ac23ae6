// Package fetch executes single-survey cutout requests: it resolves the
// effective image size, consults the disk cache, issues the HTTP request
// with rate-limit retries, decodes the response, and writes successful
// fetches back through to the cache.
package fetch

import (
	"bytes"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"math"
	"time"

	"github.com/skybrowse/skyview/pkg/cache"
	"github.com/skybrowse/skyview/pkg/surveys"
)

// Params holds the optional sizing parameters for a cutout request.
type Params struct {
	// SizePixels is the cutout size in pixels.  0 means use the survey
	// default (or derive from FOVArcmin).
	SizePixels int
	// PixelScale overrides the survey's pixel scale, in arcsec/pixel.
	PixelScale float64
	// FOVArcmin is the field of view in arc-minutes.  When positive it
	// takes precedence over SizePixels.
	FOVArcmin float64
	// Timeout bounds each HTTP request.  0 means no timeout.
	Timeout time.Duration
}

// Cutout is a fetched sky image.
type Cutout struct {
	// Survey is the name of the survey that produced this image.
	Survey string
	// Image is the decoded raster image.
	Image image.Image
	// Raw holds the encoded bytes as returned by the server (and as
	// stored in the cache).
	Raw []byte
	// FromCache is true if the image was served from the disk cache
	// without network activity.
	FromCache bool
}

// EffectiveSize resolves the Params against a survey's defaults into the
// concrete pixel size and pixel scale used for the request.  The resolution
// order matters: an explicit pixel scale beats the survey default, a field
// of view beats an explicit size, and the result is clamped to the survey's
// maximum.
func EffectiveSize(s *surveys.Survey, p Params) (size int, pixscale float64) {
	pixscale = p.PixelScale
	if pixscale <= 0 {
		pixscale = s.DefaultPixScale
	}

	if p.FOVArcmin > 0 {
		size = int(math.Floor(p.FOVArcmin * 60 / pixscale))
	} else if p.SizePixels > 0 {
		size = p.SizePixels
	} else {
		size = s.DefaultSize
	}

	if size > s.MaxSize {
		size = s.MaxSize
	}
	return size, pixscale
}

// Fetcher fetches cutouts from individual surveys, backed by a Client for
// HTTP and a disk cache.
type Fetcher struct {
	client *Client
	cache  *cache.Cache
}

// NewFetcher creates a Fetcher.  The cache may be nil to disable caching.
func NewFetcher(client *Client, c *cache.Cache) *Fetcher {
	return &Fetcher{client: client, cache: c}
}

// FetchOne fetches a cutout from a single specific survey, with no
// fallback.  The disk cache is consulted before any network request; a hit
// returns immediately.  All failures are reported as a *ProviderError.
func (f *Fetcher) FetchOne(s *surveys.Survey, ra, dec float64, p Params) (*Cutout, error) {
	size, pixscale := EffectiveSize(s, p)

	if f.cache != nil {
		if data, ok := f.cache.Get(ra, dec, s.Name, size, pixscale); ok {
			img, _, err := image.Decode(bytes.NewReader(data))
			if err == nil {
				return &Cutout{Survey: s.Name, Image: img, Raw: data, FromCache: true}, nil
			}
			// Undecodable cache entry: fall through to a network fetch.
		}
	}

	url := s.CutoutURL(ra, dec, size, pixscale)
	data, err := f.client.GetImage(url, p.Timeout)
	if err != nil {
		return nil, &ProviderError{Survey: s.Name, Err: err}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ProviderError{Survey: s.Name, Err: err}
	}

	if f.cache != nil {
		// Cache writes are best-effort; a full disk must not fail the fetch.
		_, _ = f.cache.Put(ra, dec, s.Name, size, pixscale, data)
	}

	return &Cutout{Survey: s.Name, Image: img, Raw: data}, nil
}
