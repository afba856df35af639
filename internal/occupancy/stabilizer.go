package occupancy

import "parkwatch/internal/lot"

// Stabilizer suppresses status flicker: a region's reported status only
// changes after the raw classification disagrees with the stable status
// for a configured number of consecutive frames. The raw pixel counts in
// the report are left untouched.
type Stabilizer struct {
	frames     int
	stable     map[string]lot.Status
	candidates map[string]*candidate
}

type candidate struct {
	status  lot.Status
	counter int
}

// DefaultStabilizationFrames is how long a new status must persist before
// it is promoted.
const DefaultStabilizationFrames = 5

// NewStabilizer creates a stabilizer requiring the given number of
// consecutive agreeing frames. Values below 1 disable stabilization.
func NewStabilizer(frames int) *Stabilizer {
	return &Stabilizer{
		frames:     frames,
		stable:     make(map[string]lot.Status),
		candidates: make(map[string]*candidate),
	}
}

// Apply rewrites the report's statuses with their stabilized values and
// refreshes the aggregate tallies. The first sighting of a region seeds
// its stable status from the raw classification.
func (s *Stabilizer) Apply(report *FrameReport) {
	if s.frames < 1 {
		return
	}

	for i := range report.Spaces {
		sp := &report.Spaces[i]
		raw := sp.Status

		stable, seen := s.stable[sp.ID]
		if !seen {
			s.stable[sp.ID] = raw
			s.candidates[sp.ID] = &candidate{}
			continue
		}

		cand := s.candidates[sp.ID]
		switch {
		case raw == stable:
			cand.counter = 0
		case raw == cand.status:
			cand.counter++
		default:
			cand.status = raw
			cand.counter = 1
		}

		if cand.counter >= s.frames {
			stable = cand.status
			s.stable[sp.ID] = stable
			cand.counter = 0
		}

		sp.Status = stable
	}

	report.recount()
}

// Reset drops all stabilization state, e.g. after a layout reload.
func (s *Stabilizer) Reset() {
	s.stable = make(map[string]lot.Status)
	s.candidates = make(map[string]*candidate)
}
