package reporters

import (
	"fmt"
	"os"
	"sync"

	"github.com/jwalton/gchalk"
	"github.com/skybrowse/skyview/pkg/skyview"
)

type verboseReporter struct {
	mutex sync.Mutex
}

func (p *verboseReporter) log(message string, a ...interface{}) {
	p.mutex.Lock()
	fmt.Println(fmt.Sprintf(message, a...))
	p.mutex.Unlock()
}

func (p *verboseReporter) logError(message string, a ...interface{}) {
	p.mutex.Lock()
	os.Stderr.WriteString(gchalk.Stderr.BrightRed(fmt.Sprintf(message, a...) + "\n"))
	p.mutex.Unlock()
}

func (p *verboseReporter) BatchStart(total int) {
	p.log("Fetching %d images", total)
}

func (p *verboseReporter) TargetStart(index int, label string) {
	p.log("Fetching:  %s", label)
}

func (p *verboseReporter) TargetEnd(result skyview.BatchResult, completed, total int) {
	if result.Err != nil {
		p.logError("Error:     %s: %v (%d/%d)", result.Label, result.Err, completed, total)
	} else {
		p.log("Fetched:   %s [%s] (%d/%d)", result.Label, result.Cutout.Survey, completed, total)
	}
}

func (p *verboseReporter) BatchEnd() {}

// NewVerboseReporter returns a new ProgressReporter which logs all activity to stdout.
func NewVerboseReporter() skyview.ProgressReporter {
	return &verboseReporter{}
}
