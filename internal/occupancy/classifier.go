package occupancy

import (
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"
	"time"

	"parkwatch/internal/frame"
	"parkwatch/internal/lot"
	"parkwatch/pkg/geometry"

	"gocv.io/x/gocv"
)

// Classifier turns a foreground map plus a layout into a FrameReport.
// It holds no per-frame state, so classifying the same (frame, layout)
// pair twice yields identical reports.
type Classifier struct {
	layout  *lot.Layout
	workers int
}

// NewClassifier creates a classifier for a loaded layout.
func NewClassifier(layout *lot.Layout) *Classifier {
	return &Classifier{layout: layout, workers: runtime.NumCPU()}
}

// Classify counts foreground pixels inside every region of the layout and
// produces the per-frame report. Regions are independent: each one reads
// only the shared read-only foreground map and its own shape, so they are
// classified on a small worker pool with a barrier before aggregation.
func (c *Classifier) Classify(foreground gocv.Mat, frameIndex int64) (*FrameReport, error) {
	if foreground.Empty() {
		return nil, &frame.ConfigError{Param: "foreground", Reason: "map is empty"}
	}
	if foreground.Channels() != 1 {
		return nil, &frame.ConfigError{Param: "foreground", Reason: "map must be single-channel"}
	}

	regions := c.layout.Regions
	report := &FrameReport{
		FrameIndex: frameIndex,
		Timestamp:  time.Now().UTC(),
		Spaces:     make([]SpaceStatus, len(regions)),
	}

	workers := c.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(regions) {
		workers = len(regions)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				report.Spaces[i] = c.classifyRegion(foreground, regions[i])
			}
		}()
	}
	for i := range regions {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	report.recount()
	return report, nil
}

// classifyRegion extracts the region's sub-mask, counts foreground pixels
// and applies the effective threshold. An empty marked space shows only
// faint lane-marking edges after the pipeline; a parked vehicle's body
// contributes dense texture, so the count separates the two.
func (c *Classifier) classifyRegion(fg gocv.Mat, r lot.SpaceRegion) SpaceStatus {
	count, clipped, visible := regionPixelCount(fg, r.Shape)
	threshold := c.layout.EffectiveThreshold(r)

	status := lot.StatusOccupied
	if !visible || count < threshold {
		status = lot.StatusEmpty
	}

	return SpaceStatus{
		ID:         r.ID,
		Status:     status,
		PixelCount: count,
		Threshold:  threshold,
		Clipped:    clipped,
	}
}

// regionPixelCount counts foreground pixels inside the shape, clipped to
// the frame bounds. Returns the count, whether the shape was clipped, and
// whether any of it was visible at all.
func regionPixelCount(fg gocv.Mat, shape lot.Shape) (count int, clipped, visible bool) {
	frameRect := geometry.NewRect(0, 0, float64(fg.Cols()), float64(fg.Rows()))
	bounds := shape.Bounds()

	overlap, ok := bounds.Intersect(frameRect)
	if !ok {
		return 0, true, false
	}
	clipped = overlap != bounds

	x0 := int(math.Floor(overlap.X))
	y0 := int(math.Floor(overlap.Y))
	x1 := int(math.Ceil(overlap.X + overlap.Width))
	y1 := int(math.Ceil(overlap.Y + overlap.Height))
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, fg.Cols()), min(y1, fg.Rows())
	if x1 <= x0 || y1 <= y0 {
		return 0, true, false
	}

	roi := fg.Region(image.Rect(x0, y0, x1, y1))
	defer roi.Close()

	// Axis-aligned rectangles need no mask: the crop is the region.
	if rect, isRect := shape.(lot.RectShape); isRect && rect.AxisAligned() {
		return gocv.CountNonZero(roi), clipped, true
	}

	outline := shape.Outline()
	pts := make([]image.Point, len(outline))
	for i, v := range outline {
		pts[i] = image.Pt(int(math.Round(v.X))-x0, int(math.Round(v.Y))-y0)
	}

	mask := gocv.NewMatWithSize(y1-y0, x1-x0, gocv.MatTypeCV8U)
	defer mask.Close()
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.FillPoly(&mask, pv, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	masked := gocv.NewMat()
	defer masked.Close()
	gocv.BitwiseAnd(roi, mask, &masked)

	return gocv.CountNonZero(masked), clipped, true
}
