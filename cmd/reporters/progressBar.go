package reporters

import (
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/skybrowse/skyview/pkg/skyview"
)

type progressBarReporter struct {
	mutex  sync.Mutex
	bar    *progressbar.ProgressBar
	errors []skyview.BatchResult
}

func (p *progressBarReporter) BatchStart(total int) {
	p.mutex.Lock()
	p.bar = progressbar.Default(int64(total), "fetching")
	p.mutex.Unlock()
}

func (p *progressBarReporter) TargetStart(index int, label string) {}

func (p *progressBarReporter) TargetEnd(result skyview.BatchResult, completed, total int) {
	p.mutex.Lock()
	if result.Err != nil {
		p.errors = append(p.errors, result)
	}
	_ = p.bar.Add(1)
	p.mutex.Unlock()
}

func (p *progressBarReporter) BatchEnd() {
	p.mutex.Lock()
	_ = p.bar.Finish()
	errors := p.errors
	p.mutex.Unlock()

	// Errors are held until the bar is done so they don't tear its
	// terminal redraws.
	verbose := verboseReporter{}
	for _, result := range errors {
		verbose.logError("Error: %s: %v", result.Label, result.Err)
	}
}

// NewProgressBarReporter returns a ProgressReporter which renders a single
// progress bar for the whole batch, deferring error output until the end.
func NewProgressBarReporter() skyview.ProgressReporter {
	return &progressBarReporter{}
}
