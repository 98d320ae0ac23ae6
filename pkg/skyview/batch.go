package skyview

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/skybrowse/skyview/pkg/fetch"
)

const (
	// DefaultWorkers is the batch fetch concurrency when none is given.
	// Kept low to avoid 429 rate limits from survey servers.
	DefaultWorkers = 3

	// BatchMaxPixels caps the pixel size of batch thumbnails when the
	// caller doesn't force a size.  Keeps downloads fast while preserving
	// enough detail for visual inspection.
	BatchMaxPixels = 512
)

// BatchOptions configures a batch fetch.
type BatchOptions struct {
	// Survey is a concrete survey name or "auto"/empty for automatic
	// selection.
	Survey string
	// FOVArcmin is the field of view per cutout in arc-minutes.
	FOVArcmin float64
	// SizePixels forces a pixel size, overriding the automatic
	// BatchMaxPixels cap.
	SizePixels int
	// PixelScale overrides the survey pixel scale, in arcsec/pixel.
	PixelScale float64
	// Workers is the maximum number of concurrent fetches.  0 means
	// DefaultWorkers.
	Workers int
	// Timeout bounds each HTTP request.  0 means the client default.
	Timeout time.Duration
}

// BatchResult is the outcome for one target of a batch fetch.  Exactly one
// of Cutout and Err is set.
type BatchResult struct {
	// Index is the target's position in the input slice.
	Index int
	// Label is the target's display label.
	Label string
	Cutout *fetch.Cutout
	Err    error
}

// FetchBatch fetches a cutout for every target concurrently, using a worker
// pool of min(opts.Workers, len(targets)) goroutines.  The returned slice
// has exactly one entry per target, in input order, regardless of the order
// fetches complete in.  A single target's failure (name resolution or
// fetch) is captured in its result and never affects sibling targets.
//
// The reporter may be nil.
func (c *Client) FetchBatch(targets []Target, opts BatchOptions, reporter ProgressReporter) []BatchResult {
	n := len(targets)
	results := make([]BatchResult, n)
	if n == 0 {
		return results
	}
	if reporter == nil {
		reporter = nopReporter{}
	}

	// Resolve batch sizing once, up front.  The field of view is folded
	// into a concrete pixel size here so the thumbnail cap can apply;
	// an explicit SizePixels overrides the cap.
	sizePixels := opts.SizePixels
	if sizePixels == 0 {
		sizePixels = c.batchThumbSize(opts)
	}

	// Resolve every target up front so the workers deal only in
	// coordinates.  Unresolvable targets complete immediately with an
	// error.
	type job struct {
		index   int
		label   string
		ra, dec float64
	}
	var jobs []job
	var completed int64

	reporter.BatchStart(n)
	for i, t := range targets {
		label, ra, dec, err := t.resolve(c.resolver)
		if err != nil {
			results[i] = BatchResult{Index: i, Label: label, Err: err}
			done := int(atomic.AddInt64(&completed, 1))
			reporter.TargetEnd(results[i], done, n)
			continue
		}
		jobs = append(jobs, job{index: i, label: label, ra: ra, dec: dec})
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	ch := make(chan job)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range ch {
				reporter.TargetStart(j.index, j.label)
				cut, err := c.Fetch(CutoutRequest{
					RA:         j.ra,
					Dec:        j.dec,
					Survey:     opts.Survey,
					SizePixels: sizePixels,
					PixelScale: opts.PixelScale,
					Timeout:    opts.Timeout,
				})
				results[j.index] = BatchResult{Index: j.index, Label: j.label, Cutout: cut, Err: err}
				done := int(atomic.AddInt64(&completed, 1))
				reporter.TargetEnd(results[j.index], done, n)
			}
		}()
	}

	for _, j := range jobs {
		ch <- j
	}
	close(ch)
	wg.Wait()

	reporter.BatchEnd()
	return results
}

// batchThumbSize computes the capped thumbnail size from the survey's
// defaults and the requested field of view.
func (c *Client) batchThumbSize(opts BatchOptions) int {
	name := opts.Survey
	if name == Auto {
		name = ""
	}
	s, err := c.registry.Lookup(name)
	if err != nil {
		return BatchMaxPixels
	}
	size, _ := fetch.EffectiveSize(s, fetch.Params{
		PixelScale: opts.PixelScale,
		FOVArcmin:  opts.FOVArcmin,
	})
	if size > BatchMaxPixels {
		size = BatchMaxPixels
	}
	return size
}
