// Package occupancy classifies parking space regions against a binary
// foreground map and aggregates the per-frame report.
package occupancy

import (
	"math"
	"time"

	"parkwatch/internal/lot"
)

// SpaceStatus is the per-region outcome of one classification pass.
type SpaceStatus struct {
	ID         string     `json:"id"`
	Status     lot.Status `json:"-"`
	StatusText string     `json:"status"`

	// PixelCount is the raw foreground count inside the region mask,
	// kept for threshold tuning and diagnostics.
	PixelCount int `json:"pixel_count"`
	Threshold  int `json:"threshold"`

	// Clipped flags a region that lies partly or fully outside the frame
	// bounds. Classification proceeds on the visible intersection; a fully
	// invisible region reports Empty with this flag set.
	Clipped bool `json:"clipped,omitempty"`
}

// FrameReport is the output of one classification pass over a frame.
type FrameReport struct {
	FrameIndex int64     `json:"frame_index"`
	Timestamp  time.Time `json:"timestamp"`

	Spaces []SpaceStatus `json:"spaces"`

	FreeCount        int     `json:"free_count"`
	OccupiedCount    int     `json:"occupied_count"`
	OccupancyPercent float64 `json:"occupancy_percent"`
}

// StatusOf returns the status for a region ID.
func (r *FrameReport) StatusOf(id string) (lot.Status, bool) {
	for _, s := range r.Spaces {
		if s.ID == id {
			return s.Status, true
		}
	}
	return 0, false
}

// recount refreshes the aggregate tallies from the per-space statuses.
// OccupancyPercent is rounded to one decimal; an empty layout reports 0.
func (r *FrameReport) recount() {
	r.FreeCount = 0
	r.OccupiedCount = 0
	for i := range r.Spaces {
		r.Spaces[i].StatusText = r.Spaces[i].Status.String()
		if r.Spaces[i].Status == lot.StatusEmpty {
			r.FreeCount++
		} else {
			r.OccupiedCount++
		}
	}

	total := len(r.Spaces)
	if total == 0 {
		r.OccupancyPercent = 0
		return
	}
	pct := float64(r.OccupiedCount) / float64(total) * 100
	r.OccupancyPercent = math.Round(pct*10) / 10
}
