// Package resolve converts astronomical object names and coordinate strings
// into equatorial (ra, dec) positions in decimal degrees.  Names are
// resolved through the CDS Sesame service (SIMBAD / NED / VizieR); results
// are memoized in memory to avoid repeated network calls.
package resolve

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// SesameURL is the plain-text endpoint of the CDS Sesame name resolver.
const SesameURL = "https://cds.unistra.fr/cgi-bin/nph-sesame/-o/A"

const (
	memoTTL     = 24 * time.Hour
	memoSweep   = time.Hour
	httpTimeout = 30 * time.Second
)

// NotResolvedError is returned when a name cannot be resolved to
// coordinates by any service.
type NotResolvedError struct {
	Name string
	Err  error
}

func (e *NotResolvedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not resolve %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("could not resolve %q", e.Name)
}

func (e *NotResolvedError) Unwrap() error { return e.Err }

type coords struct{ ra, dec float64 }

// Resolver resolves object names via Sesame.  It is safe for concurrent
// use.
type Resolver struct {
	httpClient *http.Client
	baseURL    string
	memo       *gocache.Cache
}

// Option is an option that can be passed to New.
type Option func(*Resolver)

// WithHTTPClient sets the http.Client used for Sesame requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(r *Resolver) { r.httpClient = httpClient }
}

// WithBaseURL overrides the Sesame endpoint.  Intended for tests.
func WithBaseURL(baseURL string) Option {
	return func(r *Resolver) { r.baseURL = baseURL }
}

// New creates a Resolver.
func New(options ...Option) *Resolver {
	r := &Resolver{
		httpClient: &http.Client{Timeout: httpTimeout},
		baseURL:    SesameURL,
		memo:       gocache.New(memoTTL, memoSweep),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// ResolveName resolves an object name (e.g. "NGC 788") to (ra, dec) in
// decimal degrees.
func (r *Resolver) ResolveName(name string) (ra, dec float64, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, 0, &NotResolvedError{Name: name}
	}

	if hit, ok := r.memo.Get(name); ok {
		c := hit.(coords)
		return c.ra, c.dec, nil
	}

	resp, err := r.httpClient.Get(r.baseURL + "?" + url.QueryEscape(name))
	if err != nil {
		return 0, 0, &NotResolvedError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, &NotResolvedError{
			Name: name,
			Err:  fmt.Errorf("sesame replied with %d", resp.StatusCode),
		}
	}

	ra, dec, err = parseSesame(resp)
	if err != nil {
		return 0, 0, &NotResolvedError{Name: name, Err: err}
	}

	r.memo.Set(name, coords{ra, dec}, gocache.DefaultExpiration)
	return ra, dec, nil
}

// parseSesame extracts the "%J <ra> <dec>" coordinate line from a Sesame
// plain-text response.
func parseSesame(resp *http.Response) (ra, dec float64, err error) {
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "%J ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		ra, errRA := strconv.ParseFloat(fields[1], 64)
		dec, errDec := strconv.ParseFloat(fields[2], 64)
		if errRA != nil || errDec != nil {
			continue
		}
		return ra, dec, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, err
	}
	return 0, 0, fmt.Errorf("no coordinates in sesame response")
}
