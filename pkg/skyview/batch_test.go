package skyview

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybrowse/skyview/pkg/fetch"
	"github.com/skybrowse/skyview/pkg/surveys"
)

// fakeResolver resolves or rejects names from a fixed table.
type fakeResolver struct {
	coords map[string][2]float64
}

func (r *fakeResolver) ResolveName(name string) (float64, float64, error) {
	if c, ok := r.coords[name]; ok {
		return c[0], c[1], nil
	}
	return 0, 0, fmt.Errorf("unknown object %q", name)
}

// concurrencyFetcher tracks the peak number of in-flight FetchOne calls.
type concurrencyFetcher struct {
	inFlight int64
	peak     int64
	calls    int64
	delay    time.Duration
}

func (f *concurrencyFetcher) FetchOne(s *surveys.Survey, ra, dec float64, p fetch.Params) (*fetch.Cutout, error) {
	cur := atomic.AddInt64(&f.inFlight, 1)
	defer atomic.AddInt64(&f.inFlight, -1)
	for {
		peak := atomic.LoadInt64(&f.peak)
		if cur <= peak || atomic.CompareAndSwapInt64(&f.peak, peak, cur) {
			break
		}
	}
	atomic.AddInt64(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return richCutout(s.Name), nil
}

// recordingReporter captures progress callbacks for assertion.
type recordingReporter struct {
	mu        sync.Mutex
	total     int
	completed []int
	ended     bool
}

func (r *recordingReporter) BatchStart(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
}

func (r *recordingReporter) TargetStart(index int, label string) {}

func (r *recordingReporter) TargetEnd(result BatchResult, completed, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, completed)
}

func (r *recordingReporter) BatchEnd() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = true
}

func TestFetchBatchResultsInInputOrder(t *testing.T) {
	fake := &fakeFetcher{cutouts: map[string]*fetch.Cutout{
		"ls-dr10": richCutout("ls-dr10"),
	}}
	c := New(WithFetcher(fake))

	targets := []Target{
		CoordinateTarget{RA: 10, Dec: 1},
		CoordinateTarget{RA: 20, Dec: 2},
		CoordinateTarget{RA: 30, Dec: 3},
		CoordinateTarget{RA: 40, Dec: 4},
	}
	results := c.FetchBatch(targets, BatchOptions{Workers: 4}, nil)

	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		require.NoError(t, r.Err)
		require.NotNil(t, r.Cutout)
	}
}

func TestFetchBatchIsolatesFailures(t *testing.T) {
	// Every third target has an unresolvable name; its failure must not
	// affect its siblings.
	resolver := &fakeResolver{coords: map[string][2]float64{
		"NGC 788": {30.28, -6.82},
	}}
	fake := &fakeFetcher{cutouts: map[string]*fetch.Cutout{
		"ls-dr10": richCutout("ls-dr10"),
	}}
	c := New(WithFetcher(fake), WithResolver(resolver))

	var targets []Target
	for i := 0; i < 9; i++ {
		if i%3 == 2 {
			targets = append(targets, NamedTarget{Name: fmt.Sprintf("bogus-%d", i)})
		} else {
			targets = append(targets, NamedTarget{Name: "NGC 788"})
		}
	}
	results := c.FetchBatch(targets, BatchOptions{}, nil)

	require.Len(t, results, 9)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		if i%3 == 2 {
			assert.Error(t, r.Err)
			assert.Nil(t, r.Cutout)
		} else {
			assert.NoError(t, r.Err)
			assert.NotNil(t, r.Cutout)
			assert.Equal(t, "NGC 788", r.Label)
		}
	}
}

func TestFetchBatchFetchErrorsCaptured(t *testing.T) {
	c := New(WithFetcher(&fakeFetcher{errs: allSurveysErr(errors.New("down"))}))

	results := c.FetchBatch([]Target{
		CoordinateTarget{RA: 10, Dec: 1},
	}, BatchOptions{}, nil)

	require.Len(t, results, 1)
	var allFailed *AllFailedError
	assert.ErrorAs(t, results[0].Err, &allFailed)
}

func TestFetchBatchConcurrencyBounded(t *testing.T) {
	fake := &concurrencyFetcher{delay: 10 * time.Millisecond}
	c := New(WithFetcher(fake))

	var targets []Target
	for i := 0; i < 12; i++ {
		targets = append(targets, CoordinateTarget{RA: float64(i), Dec: 0})
	}
	c.FetchBatch(targets, BatchOptions{Workers: 3}, nil)

	assert.Equal(t, int64(12), atomic.LoadInt64(&fake.calls))
	assert.LessOrEqual(t, atomic.LoadInt64(&fake.peak), int64(3))
}

func TestFetchBatchWorkersCappedByTargets(t *testing.T) {
	fake := &concurrencyFetcher{delay: 5 * time.Millisecond}
	c := New(WithFetcher(fake))

	c.FetchBatch([]Target{
		CoordinateTarget{RA: 1, Dec: 1},
		CoordinateTarget{RA: 2, Dec: 2},
	}, BatchOptions{Workers: 16}, nil)

	assert.LessOrEqual(t, atomic.LoadInt64(&fake.peak), int64(2))
}

func TestFetchBatchProgressReporting(t *testing.T) {
	fake := &fakeFetcher{cutouts: map[string]*fetch.Cutout{
		"ls-dr10": richCutout("ls-dr10"),
	}}
	c := New(WithFetcher(fake))

	reporter := &recordingReporter{}
	c.FetchBatch([]Target{
		CoordinateTarget{RA: 1, Dec: 1},
		CoordinateTarget{RA: 2, Dec: 2},
		CoordinateTarget{RA: 3, Dec: 3},
	}, BatchOptions{Workers: 2}, reporter)

	assert.Equal(t, 3, reporter.total)
	assert.True(t, reporter.ended)

	// Each completion gets a distinct count; delivery order between
	// workers may race but the counts themselves never repeat.
	assert.ElementsMatch(t, []int{1, 2, 3}, reporter.completed)
}

func TestFetchBatchThumbnailCap(t *testing.T) {
	// A large field of view must not blow past the thumbnail cap; the
	// fov is folded into a capped pixel size before fetching.
	fake := &fakeFetcher{cutouts: map[string]*fetch.Cutout{
		"ls-dr10": richCutout("ls-dr10"),
	}}
	c := New(WithFetcher(fake))

	c.FetchBatch([]Target{
		CoordinateTarget{RA: 10, Dec: 1},
	}, BatchOptions{FOVArcmin: 30}, nil)

	require.NotEmpty(t, fake.params)
	assert.Equal(t, BatchMaxPixels, fake.params[0].SizePixels)
	assert.Zero(t, fake.params[0].FOVArcmin)
}

func TestFetchBatchExplicitSizeOverridesCap(t *testing.T) {
	fake := &fakeFetcher{cutouts: map[string]*fetch.Cutout{
		"ls-dr10": richCutout("ls-dr10"),
	}}
	c := New(WithFetcher(fake))

	c.FetchBatch([]Target{
		CoordinateTarget{RA: 10, Dec: 1},
	}, BatchOptions{SizePixels: 1024}, nil)

	require.NotEmpty(t, fake.params)
	assert.Equal(t, 1024, fake.params[0].SizePixels)
}

func TestFetchBatchEmpty(t *testing.T) {
	c := New(WithFetcher(&fakeFetcher{}))
	results := c.FetchBatch(nil, BatchOptions{}, nil)
	assert.Empty(t, results)
}

func TestCoordinateTargetLabel(t *testing.T) {
	label, ra, dec, err := CoordinateTarget{RA: 30.2875, Dec: -6.8161}.resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "(30.2875, -6.8161)", label)
	assert.Equal(t, 30.2875, ra)
	assert.Equal(t, -6.8161, dec)

	label, _, _, err = CoordinateTarget{Label: "M 77", RA: 1, Dec: 2}.resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "M 77", label)
}
