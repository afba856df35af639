package calib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwatch/internal/lot"
	"parkwatch/pkg/geometry"
)

func rects(dims ...[2]float64) []lot.SpaceRegion {
	regions := make([]lot.SpaceRegion, len(dims))
	for i, d := range dims {
		regions[i] = lot.SpaceRegion{
			ID:    string(rune('a' + i)),
			Shape: lot.RectShape{Center: geometry.Point2D{X: 10, Y: 10}, Width: d[0], Height: d[1]},
		}
	}
	return regions
}

func TestSuggestDimensions(t *testing.T) {
	t.Parallel()

	t.Run("uniform rectangles", func(t *testing.T) {
		d, err := SuggestDimensions(rects([2]float64{107, 48}, [2]float64{107, 48}, [2]float64{107, 48}))
		require.NoError(t, err)
		assert.Equal(t, 107.0, d.Width)
		assert.Equal(t, 48.0, d.Height)
		assert.Equal(t, 3, d.Samples)
	})

	t.Run("outlier dropped", func(t *testing.T) {
		// Nine spaces near 100 wide plus one mis-drawn at 500. The outlier
		// is beyond two standard deviations and must not drag the mean up.
		dims := make([][2]float64, 0, 10)
		for i := 0; i < 9; i++ {
			dims = append(dims, [2]float64{100 + float64(i%3), 48})
		}
		dims = append(dims, [2]float64{500, 48})

		d, err := SuggestDimensions(rects(dims...))
		require.NoError(t, err)
		assert.InDelta(t, 101, d.Width, 1.5)
		assert.Equal(t, 10, d.Samples)
	})

	t.Run("polygons ignored", func(t *testing.T) {
		regions := rects([2]float64{80, 40})
		regions = append(regions, lot.SpaceRegion{
			ID:    "p",
			Shape: lot.PolygonShape{Vertices: []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}}},
		})

		d, err := SuggestDimensions(regions)
		require.NoError(t, err)
		assert.Equal(t, 80.0, d.Width)
		assert.Equal(t, 1, d.Samples)
	})

	t.Run("no rectangles", func(t *testing.T) {
		regions := []lot.SpaceRegion{{
			ID:    "p",
			Shape: lot.PolygonShape{Vertices: []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 10}}},
		}}
		_, err := SuggestDimensions(regions)
		assert.ErrorIs(t, err, ErrNoRectangles)
	})
}

func TestInlierMean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5.0, inlierMean([]float64{5}))
	assert.Equal(t, 5.0, inlierMean([]float64{5, 5, 5, 5}))

	// Fewer than three samples keeps the plain mean even when spread out.
	assert.Equal(t, 50.0, inlierMean([]float64{0, 100}))
}
