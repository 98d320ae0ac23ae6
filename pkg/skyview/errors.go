package skyview

import "fmt"

// AllFailedError is returned when every candidate survey in a fallback
// sequence failed with an error (as opposed to returning a usable-but-blank
// image, in which case the best image seen is returned instead).
type AllFailedError struct {
	RA, Dec float64
	// Last is the most recent underlying survey error, or nil if no
	// candidate ever returned one.
	Last error
}

func (e *AllFailedError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("no survey could provide an image for (%g, %g): %v",
			e.RA, e.Dec, e.Last)
	}
	return fmt.Sprintf("no survey could provide an image for (%g, %g)", e.RA, e.Dec)
}

func (e *AllFailedError) Unwrap() error { return e.Last }
