// Package skyview fetches rectangular sky-image cutouts for celestial
// coordinates from third-party survey imaging services.  It selects a
// survey (or walks a priority-ordered fallback list), applies a disk cache,
// detects blank "no coverage" responses, and can fan out many fetches
// across a bounded worker pool.
package skyview

import (
	"strings"
	"time"

	"github.com/skybrowse/skyview/pkg/cache"
	"github.com/skybrowse/skyview/pkg/fetch"
	"github.com/skybrowse/skyview/pkg/resolve"
	"github.com/skybrowse/skyview/pkg/surveys"
)

const (
	// Auto is the sentinel survey name that selects surveys automatically
	// in fallback-priority order.
	Auto = "auto"

	// DefaultBlankThreshold is the pixel standard deviation (8-bit scale)
	// below which an image is considered blank.  The value is an
	// empirically tuned heuristic for "outside the survey footprint".
	DefaultBlankThreshold = 10.0

	// DefaultTimeout bounds each individual HTTP request.
	DefaultTimeout = 30 * time.Second
)

// CutoutRequest describes a single logical fetch.
type CutoutRequest struct {
	// RA and Dec are the position in decimal degrees.
	RA, Dec float64
	// Survey is a concrete survey name, or "auto" (or empty) for
	// automatic selection with fallback.
	Survey string
	// SizePixels, PixelScale and FOVArcmin are resolved to a single
	// effective size; see fetch.EffectiveSize.
	SizePixels int
	PixelScale float64
	FOVArcmin  float64
	// AllowFallback controls whether a blank result from an explicitly
	// named survey triggers trying the remaining surveys.  It is implied
	// (and forced) when Survey is "auto".
	AllowFallback bool
	// Timeout bounds each HTTP request.  0 means DefaultTimeout.
	Timeout time.Duration
}

// SurveyFetcher fetches a cutout from one specific survey.  It is satisfied
// by *fetch.Fetcher; tests substitute instrumented implementations.
type SurveyFetcher interface {
	FetchOne(s *surveys.Survey, ra, dec float64, p fetch.Params) (*fetch.Cutout, error)
}

// Client is the fetch orchestrator.  It is safe for concurrent use.
type Client struct {
	registry       *surveys.Registry
	fetcher        SurveyFetcher
	resolver       Resolver
	blankThreshold float64
	cacheDir       string
}

// Option is an option that can be passed to New.
type Option func(*Client)

// WithRegistry replaces the default survey registry.
func WithRegistry(r *surveys.Registry) Option {
	return func(c *Client) { c.registry = r }
}

// WithFetcher replaces the single-survey fetcher.  Intended for tests.
func WithFetcher(f SurveyFetcher) Option {
	return func(c *Client) { c.fetcher = f }
}

// WithResolver sets the name resolver used for NamedTargets.
func WithResolver(r Resolver) Option {
	return func(c *Client) { c.resolver = r }
}

// WithBlankThreshold sets the standard-deviation threshold below which an
// image counts as blank during fallback.
func WithBlankThreshold(threshold float64) Option {
	return func(c *Client) { c.blankThreshold = threshold }
}

// WithCacheDir sets the disk cache directory used by the default fetcher.
func WithCacheDir(dir string) Option {
	return func(c *Client) { c.cacheDir = dir }
}

// New creates a Client.  With no options it uses the default survey
// registry, the standard cache directory, and the Sesame name resolver.
func New(options ...Option) *Client {
	c := &Client{
		blankThreshold: DefaultBlankThreshold,
	}

	for _, option := range options {
		option(c)
	}

	if c.registry == nil {
		c.registry = surveys.Default()
	}
	if c.fetcher == nil {
		dir := c.cacheDir
		if dir == "" {
			dir = cache.DefaultDir()
		}
		c.fetcher = fetch.NewFetcher(fetch.NewClient(), cache.New(dir))
	}
	if c.resolver == nil {
		c.resolver = resolve.New()
	}

	return c
}

// Registry returns the client's survey registry.
func (c *Client) Registry() *surveys.Registry { return c.registry }

// Fetch retrieves a cutout for the request, walking the fallback order when
// the survey is "auto" or AllowFallback is set.
//
// In fallback mode each candidate's image is scored by its pixel standard
// deviation; the first non-blank image is returned immediately, and if
// every candidate is blank or errors, the best-scoring image seen is
// returned.  Only if every candidate errored does Fetch fail, with an
// *AllFailedError carrying the last cause.
//
// When a concrete survey is named and fallback is off (the default),
// whatever that survey returns is passed through without judgment: dark
// images may be valid data.
func (c *Client) Fetch(req CutoutRequest) (*fetch.Cutout, error) {
	auto := req.Survey == "" || strings.EqualFold(req.Survey, Auto)
	allowFallback := req.AllowFallback || auto

	var candidates []string
	if auto {
		candidates = c.registry.FallbackOrder()
	} else {
		if _, err := c.registry.Lookup(req.Survey); err != nil {
			return nil, err
		}
		candidates = []string{req.Survey}
		if req.AllowFallback {
			for _, name := range c.registry.FallbackOrder() {
				if !strings.EqualFold(name, req.Survey) {
					candidates = append(candidates, name)
				}
			}
		}
	}

	params := fetch.Params{
		SizePixels: req.SizePixels,
		PixelScale: req.PixelScale,
		FOVArcmin:  req.FOVArcmin,
		Timeout:    req.Timeout,
	}
	if params.Timeout == 0 {
		params.Timeout = DefaultTimeout
	}

	var best *fetch.Cutout
	bestStd := -1.0
	var lastErr error

	for _, name := range candidates {
		s, err := c.registry.Lookup(name)
		if err != nil {
			lastErr = err
			continue
		}

		cut, err := c.fetcher.FetchOne(s, req.RA, req.Dec, params)
		if err != nil {
			lastErr = err
			continue
		}

		if !allowFallback {
			return cut, nil
		}

		// Keep the image with the most content seen so far; ties keep
		// the earlier (higher priority) survey.
		std := cut.StdDev()
		if std > bestStd {
			best = cut
			bestStd = std
		}
		if std >= c.blankThreshold {
			return cut, nil
		}
	}

	if best != nil {
		return best, nil
	}
	return nil, &AllFailedError{RA: req.RA, Dec: req.Dec, Last: lastErr}
}
