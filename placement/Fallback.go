package placement

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Fallback determines what a Request does when its search exhausts the
// attempt budget
type Fallback int

const (
	// Unconstrained places the entity at a position drawn from the
	// bounds with no exclusion zones, accepting a possible overlap
	Unconstrained Fallback = iota

	// Skip does not place the entity at all
	Skip

	// Relax halves every exclusion radius and searches again, for a
	// bounded number of rounds, before falling back to Unconstrained
	Relax
)

// DefaultRelaxRounds is the number of relaxation rounds used by Relax
// when a Request does not set one
const DefaultRelaxRounds = 3

func (f Fallback) String() string {
	switch f {
	case Unconstrained:
		return "unconstrained"
	case Skip:
		return "skip"
	case Relax:
		return "relax"
	default:
		return fmt.Sprintf("Fallback(%d)", int(f))
	}
}

// MarshalText implements encoding.TextMarshaler
func (f Fallback) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so that fallbacks
// can be named in configuration files
func (f *Fallback) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "unconstrained":
		*f = Unconstrained
	case "skip":
		*f = Skip
	case "relax":
		*f = Relax
	default:
		return fmt.Errorf("unmarshalText: unknown fallback %q", text)
	}
	return nil
}

// Request describes a single placement
type Request struct {
	Bounds      Bounds
	Exclusions  []Zone
	MaxAttempts int
	Fallback    Fallback

	// RelaxRounds bounds the number of relaxation rounds when Fallback
	// is Relax. Zero means DefaultRelaxRounds.
	RelaxRounds int
}

// Result describes the outcome of a Request
type Result struct {
	Position r3.Vec

	// Attempts is the total number of candidates drawn, including
	// those drawn during relaxation rounds
	Attempts int

	// Placed is false only when the search failed and the fallback was
	// Skip
	Placed bool

	// Fallback is true when the search within the requested exclusion
	// zones failed, so Position (if any) did not satisfy every zone
	Fallback bool
}

// Place performs the placement described by req, applying req.Fallback
// if the search is infeasible
func (s *Sampler) Place(req Request) Result {
	pos, attempts, err := s.Find(req.Bounds, req.Exclusions, req.MaxAttempts)
	if err == nil {
		return Result{Position: pos, Attempts: attempts, Placed: true}
	}

	switch req.Fallback {
	case Skip:
		return Result{Attempts: attempts, Fallback: true}

	case Relax:
		rounds := req.RelaxRounds
		if rounds <= 0 {
			rounds = DefaultRelaxRounds
		}
		zones := req.Exclusions
		for i := 0; i < rounds; i++ {
			zones = shrink(zones, 0.5)
			pos, n, err := s.Find(req.Bounds, zones, req.MaxAttempts)
			attempts += n
			if err == nil {
				return Result{pos, attempts, true, true}
			}
		}
	}

	return Result{s.Sample(req.Bounds), attempts, true, true}
}

// PlaceBatch places n entities one after another. Every entity placed
// is added to the exclusion zones of all later entities in the batch
// with the given separation radius, so that no two entities of the
// batch are placed closer than separation unless a fallback was used.
// Entities which were skipped do not produce a zone.
func (s *Sampler) PlaceBatch(req Request, n int,
	separation float64) []Result {
	zones := make([]Zone, len(req.Exclusions), len(req.Exclusions)+n)
	copy(zones, req.Exclusions)

	results := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		next := req
		next.Exclusions = zones

		result := s.Place(next)
		results = append(results, result)
		if result.Placed {
			zones = append(zones, Zone{Center: result.Position,
				Radius: separation})
		}
	}
	return results
}

// shrink returns a copy of zones with every radius scaled by factor
func shrink(zones []Zone, factor float64) []Zone {
	out := make([]Zone, len(zones))
	for i, zone := range zones {
		out[i] = Zone{Center: zone.Center, Radius: zone.Radius * factor}
	}
	return out
}
