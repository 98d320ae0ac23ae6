// Package surveys defines the registry of sky survey imaging services:
// endpoint templates, pixel scales, size limits, and the priority order
// used for automatic fallback when a survey has no coverage at a position.
package surveys

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultSurvey is the survey used when the caller doesn't specify one.
const DefaultSurvey = "ls-dr10"

// Survey describes a single sky survey image service.
type Survey struct {
	// Name is the short identifier used in API calls (e.g. "ls-dr10").
	Name string
	// BaseURL is the base URL of the cutout endpoint.
	BaseURL string
	// DefaultPixScale is the native pixel scale in arcseconds per pixel.
	DefaultPixScale float64
	// DefaultSize is the cutout size in pixels when neither an explicit
	// size nor a field of view is given.
	DefaultSize int
	// MaxSize is the server-side limit on cutout size in pixels.
	MaxSize int
	// Priority controls automatic fallback ordering.  Higher is tried first.
	Priority int
	// Bands lists the photometric bands available (informational).
	Bands string
	// DecMin and DecMax give the approximate declination coverage in
	// degrees.  This is an advisory footprint filter, not enforced before
	// a request is made.
	DecMin, DecMax float64

	// buildURL builds the cutout request URL for this survey.  When nil,
	// the standard legacysurvey-style query shape is used.  Surveys with
	// a different endpoint shape (PanSTARRS) supply their own builder.
	buildURL func(s *Survey, ra, dec float64, size int, pixscale float64) string
}

// CutoutURL returns the full request URL for a cutout at (ra, dec) with the
// given size in pixels and pixel scale in arcsec/pixel.
func (s *Survey) CutoutURL(ra, dec float64, size int, pixscale float64) string {
	if size <= 0 {
		size = s.DefaultSize
	}
	if pixscale <= 0 {
		pixscale = s.DefaultPixScale
	}
	if s.buildURL != nil {
		return s.buildURL(s, ra, dec, size, pixscale)
	}
	return legacyCutoutURL(s, ra, dec, size, pixscale)
}

// Covers returns true if a declination falls within the survey's approximate
// footprint.
func (s *Survey) Covers(dec float64) bool {
	return s.DecMin <= dec && dec <= s.DecMax
}

// legacyCutoutURL builds the query shape shared by all surveys served
// through the legacysurvey.org viewer.
func legacyCutoutURL(s *Survey, ra, dec float64, size int, pixscale float64) string {
	return fmt.Sprintf("%s?ra=%g&dec=%g&size=%d&pixscale=%g&layer=%s",
		s.BaseURL, ra, dec, size, pixscale, s.Name)
}

// UnknownSurveyError is returned when a survey name is not in the registry.
type UnknownSurveyError struct {
	Name  string
	Known []string
}

func (e *UnknownSurveyError) Error() string {
	return fmt.Sprintf("unknown survey %q (available: %s)",
		e.Name, strings.Join(e.Known, ", "))
}

// Registry is an immutable set of surveys.  It is safe for concurrent use
// once constructed.
type Registry struct {
	surveys map[string]*Survey
	order   []string
}

// NewRegistry builds a registry from the given surveys.
func NewRegistry(list ...*Survey) *Registry {
	r := &Registry{surveys: make(map[string]*Survey, len(list))}
	for _, s := range list {
		r.surveys[strings.ToLower(s.Name)] = s
		r.order = append(r.order, strings.ToLower(s.Name))
	}
	// Descending priority, ties broken by name so the order is stable
	// across runs.
	sort.Slice(r.order, func(i, j int) bool {
		a, b := r.surveys[r.order[i]], r.surveys[r.order[j]]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Name < b.Name
	})
	return r
}

// Lookup finds a survey by name (case-insensitive).  An empty name returns
// the default survey.
func (r *Registry) Lookup(name string) (*Survey, error) {
	key := strings.ToLower(name)
	if key == "" {
		key = DefaultSurvey
	}
	s, ok := r.surveys[key]
	if !ok {
		return nil, &UnknownSurveyError{Name: name, Known: r.FallbackOrder()}
	}
	return s, nil
}

// FallbackOrder returns survey names sorted by descending priority.  The
// result is a copy; callers may modify it.
func (r *Registry) FallbackOrder() []string {
	order := make([]string, len(r.order))
	copy(order, r.order)
	return order
}

// All returns every survey in fallback order.
func (r *Registry) All() []*Survey {
	all := make([]*Survey, 0, len(r.order))
	for _, name := range r.order {
		all = append(all, r.surveys[name])
	}
	return all
}

// Default returns the standard registry of supported surveys.
func Default() *Registry {
	return NewRegistry(
		&Survey{
			Name:            "ls-dr10",
			BaseURL:         "https://www.legacysurvey.org/viewer/cutout.jpg",
			DefaultPixScale: 0.262, DefaultSize: 256, MaxSize: 3000,
			Priority: 100, Bands: "grz",
			DecMin: -70, DecMax: 90,
		},
		&Survey{
			Name:            "ls-dr9",
			BaseURL:         "https://www.legacysurvey.org/viewer/cutout.jpg",
			DefaultPixScale: 0.262, DefaultSize: 256, MaxSize: 3000,
			Priority: 90, Bands: "grz",
			DecMin: -70, DecMax: 90,
		},
		&Survey{
			Name:            "panstarrs",
			BaseURL:         "https://ps1images.stsci.edu/cgi-bin/fitscut.cgi",
			DefaultPixScale: 0.25, DefaultSize: 256, MaxSize: 1200,
			Priority: 80, Bands: "grizy",
			DecMin: -30, DecMax: 90,
			buildURL: panstarrsCutoutURL,
		},
		&Survey{
			Name:            "sdss",
			BaseURL:         "https://www.legacysurvey.org/viewer/cutout.jpg",
			DefaultPixScale: 0.396, DefaultSize: 256, MaxSize: 3000,
			Priority: 70, Bands: "ugriz",
			DecMin: -20, DecMax: 70,
		},
		&Survey{
			Name:            "des-dr1",
			BaseURL:         "https://www.legacysurvey.org/viewer/cutout.jpg",
			DefaultPixScale: 0.262, DefaultSize: 256, MaxSize: 3000,
			Priority: 60, Bands: "grizY",
			DecMin: -65, DecMax: 5,
		},
		&Survey{
			Name:            "unwise-neo7",
			BaseURL:         "https://www.legacysurvey.org/viewer/cutout.jpg",
			DefaultPixScale: 2.75, DefaultSize: 256, MaxSize: 3000,
			Priority: 20, Bands: "W1W2",
			DecMin: -90, DecMax: 90,
		},
		&Survey{
			Name:            "galex",
			BaseURL:         "https://www.legacysurvey.org/viewer/cutout.jpg",
			DefaultPixScale: 1.5, DefaultSize: 256, MaxSize: 3000,
			Priority: 10, Bands: "FUV/NUV",
			DecMin: -90, DecMax: 90,
		},
	)
}
