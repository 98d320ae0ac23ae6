package skyview

// ProgressReporter is an interface for receiving progress updates from a
// batch fetch.  Completion counts are monotonically increasing and
// decoupled from result ordering: targets complete in whatever order the
// network delivers them.
type ProgressReporter interface {
	// BatchStart is called once before any fetches begin.
	BatchStart(total int)
	// TargetStart is called when a target's fetch is picked up by a
	// worker.
	TargetStart(index int, label string)
	// TargetEnd is called when a target completes, successfully or not.
	// completed counts all finished targets so far.
	TargetEnd(result BatchResult, completed, total int)
	// BatchEnd is called once after every target has completed.
	BatchEnd()
}

// nopReporter is used when the caller passes a nil reporter.
type nopReporter struct{}

func (nopReporter) BatchStart(int)                  {}
func (nopReporter) TargetStart(int, string)         {}
func (nopReporter) TargetEnd(BatchResult, int, int) {}
func (nopReporter) BatchEnd()                       {}
