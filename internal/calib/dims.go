// Package calib derives suggested default space dimensions from the
// rectangles already annotated in a layout.
package calib

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"parkwatch/internal/lot"
)

// Dimensions is a suggested default width and height for new spaces.
type Dimensions struct {
	Width   float64
	Height  float64
	Samples int
}

// ErrNoRectangles is returned when the layout has no rectangular spaces
// to calibrate from.
var ErrNoRectangles = errors.New("calib: layout has no rectangular spaces")

// SuggestDimensions averages the annotated rectangle dimensions, dropping
// outliers beyond two standard deviations so a single mis-drawn space does
// not skew the defaults.
func SuggestDimensions(regions []lot.SpaceRegion) (Dimensions, error) {
	var widths, heights []float64
	for _, r := range regions {
		if rect, ok := r.Shape.(lot.RectShape); ok {
			widths = append(widths, rect.Width)
			heights = append(heights, rect.Height)
		}
	}
	if len(widths) == 0 {
		return Dimensions{}, ErrNoRectangles
	}

	return Dimensions{
		Width:   inlierMean(widths),
		Height:  inlierMean(heights),
		Samples: len(widths),
	}, nil
}

// inlierMean returns the mean of the values within two standard
// deviations of the overall mean.
func inlierMean(xs []float64) float64 {
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 3 || std == 0 || math.IsNaN(std) {
		return mean
	}

	var inliers []float64
	for _, x := range xs {
		if math.Abs(x-mean) <= 2*std {
			inliers = append(inliers, x)
		}
	}
	if len(inliers) == 0 {
		return mean
	}
	return stat.Mean(inliers, nil)
}
