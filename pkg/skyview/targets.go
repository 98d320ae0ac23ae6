package skyview

import "fmt"

// Resolver resolves object names to equatorial coordinates in decimal
// degrees.  The production implementation lives in pkg/resolve.
type Resolver interface {
	ResolveName(name string) (ra, dec float64, err error)
}

// Target is a position to fetch, given either as explicit coordinates or as
// an object name to be resolved.  The two implementations are
// CoordinateTarget and NamedTarget.
type Target interface {
	// resolve produces a display label and coordinates, using the
	// Resolver for named targets.
	resolve(res Resolver) (label string, ra, dec float64, err error)
}

// CoordinateTarget is a target given by explicit (ra, dec) in decimal
// degrees.
type CoordinateTarget struct {
	// Label is an optional display label.  If empty, one is derived from
	// the coordinates.
	Label string
	RA    float64
	Dec   float64
}

func (t CoordinateTarget) resolve(Resolver) (string, float64, float64, error) {
	label := t.Label
	if label == "" {
		label = fmt.Sprintf("(%.4f, %.4f)", t.RA, t.Dec)
	}
	return label, t.RA, t.Dec, nil
}

// NamedTarget is a target given by object name (e.g. "NGC 788"), resolved
// to coordinates before fetching.
type NamedTarget struct {
	Name string
}

func (t NamedTarget) resolve(res Resolver) (string, float64, float64, error) {
	if res == nil {
		return t.Name, 0, 0, fmt.Errorf("no resolver configured for named target %q", t.Name)
	}
	ra, dec, err := res.ResolveName(t.Name)
	if err != nil {
		return t.Name, 0, 0, err
	}
	return t.Name, ra, dec, nil
}
