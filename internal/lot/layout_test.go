package lot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwatch/pkg/geometry"
)

func validLayout() *Layout {
	return &Layout{
		Name:             "test lot",
		DefaultWidth:     50,
		DefaultHeight:    50,
		DefaultThreshold: 900,
		Regions: []SpaceRegion{
			{ID: "1", Shape: RectShape{Center: geometry.Point2D{X: 25, Y: 25}, Width: 50, Height: 50}},
			{ID: "2", Shape: PolygonShape{Vertices: []geometry.Point2D{{X: 100, Y: 0}, {X: 150, Y: 0}, {X: 150, Y: 50}, {X: 100, Y: 50}}}},
		},
		RoutePoints: []RoutePoint{
			{ID: "wp0", Coordinates: geometry.Point2D{X: 0, Y: 100}, SequenceIndex: 0},
		},
	}
}

func TestLayoutValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid layout passes", func(t *testing.T) {
		assert.NoError(t, validLayout().Validate())
	})

	t.Run("duplicate region id", func(t *testing.T) {
		l := validLayout()
		l.Regions[1].ID = "1"
		err := l.Validate()
		var lerr *LayoutError
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, "1", lerr.RegionID)
	})

	t.Run("non-positive rectangle dimensions", func(t *testing.T) {
		l := validLayout()
		l.Regions[0].Shape = RectShape{Center: geometry.Point2D{X: 10, Y: 10}, Width: 0, Height: 20}
		assert.Error(t, l.Validate())
	})

	t.Run("polygon with too few vertices", func(t *testing.T) {
		l := validLayout()
		l.Regions[1].Shape = PolygonShape{Vertices: []geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 1}}}
		assert.Error(t, l.Validate())
	})

	t.Run("self-intersecting polygon", func(t *testing.T) {
		l := validLayout()
		l.Regions[1].Shape = PolygonShape{Vertices: []geometry.Point2D{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 10}}}
		assert.Error(t, l.Validate())
	})

	t.Run("degenerate polygon", func(t *testing.T) {
		l := validLayout()
		l.Regions[1].Shape = PolygonShape{Vertices: []geometry.Point2D{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 10}}}
		assert.Error(t, l.Validate())
	})

	t.Run("non-positive default threshold", func(t *testing.T) {
		l := validLayout()
		l.DefaultThreshold = 0
		assert.Error(t, l.Validate())
	})

	t.Run("negative threshold override", func(t *testing.T) {
		l := validLayout()
		l.Regions[0].ThresholdOverride = -5
		assert.Error(t, l.Validate())
	})
}

func TestEffectiveThreshold(t *testing.T) {
	t.Parallel()

	l := validLayout()
	assert.Equal(t, 900, l.EffectiveThreshold(l.Regions[0]))

	l.Regions[0].ThresholdOverride = 300
	assert.Equal(t, 300, l.EffectiveThreshold(l.Regions[0]))
}

func TestSortRegions(t *testing.T) {
	t.Parallel()

	t.Run("numeric ids sort numerically", func(t *testing.T) {
		l := validLayout()
		l.Regions = []SpaceRegion{
			{ID: "10", Shape: RectShape{Center: geometry.Point2D{}, Width: 1, Height: 1}},
			{ID: "2", Shape: RectShape{Center: geometry.Point2D{}, Width: 1, Height: 1}},
			{ID: "1", Shape: RectShape{Center: geometry.Point2D{}, Width: 1, Height: 1}},
		}
		l.SortRegions()
		assert.Equal(t, []string{"1", "2", "10"}, []string{l.Regions[0].ID, l.Regions[1].ID, l.Regions[2].ID})
	})

	t.Run("mixed ids sort lexicographically", func(t *testing.T) {
		l := validLayout()
		l.Regions = []SpaceRegion{
			{ID: "b", Shape: RectShape{Center: geometry.Point2D{}, Width: 1, Height: 1}},
			{ID: "a", Shape: RectShape{Center: geometry.Point2D{}, Width: 1, Height: 1}},
		}
		l.SortRegions()
		assert.Equal(t, "a", l.Regions[0].ID)
	})
}

func TestRectShape(t *testing.T) {
	t.Parallel()

	r := RectShape{Center: geometry.Point2D{X: 50, Y: 50}, Width: 20, Height: 10}
	assert.Equal(t, geometry.Point2D{X: 50, Y: 50}, r.Centroid())
	assert.True(t, r.AxisAligned())
	assert.Equal(t, geometry.NewRect(40, 45, 20, 10), r.Bounds())

	rotated := RectShape{Center: geometry.Point2D{X: 50, Y: 50}, Width: 20, Height: 10, RotationDeg: 45}
	assert.False(t, rotated.AxisAligned())

	fullTurn := RectShape{Center: geometry.Point2D{X: 50, Y: 50}, Width: 20, Height: 10, RotationDeg: 360}
	assert.True(t, fullTurn.AxisAligned())
}

func TestParse(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"name": "blok2",
		"default_threshold": 900,
		"default_width": 107,
		"default_height": 48,
		"spaces": [
			{"id": "2", "type": "rect", "center": {"x": 160, "y": 24}},
			{"id": "1", "type": "rect", "center": {"x": 53, "y": 24}, "width": 100, "height": 40, "rotation": 15},
			{"id": "3", "type": "polygon", "vertices": [{"x":0,"y":100},{"x":50,"y":100},{"x":25,"y":150}], "threshold": 400}
		],
		"route_points": [
			{"id": "wp0", "x": 10, "y": 200},
			{"x": 60, "y": 200}
		]
	}`)

	l, err := Parse(data, Defaults{})
	require.NoError(t, err)

	// Regions come back sorted by numeric ID
	require.Len(t, l.Regions, 3)
	assert.Equal(t, "1", l.Regions[0].ID)
	assert.Equal(t, "2", l.Regions[1].ID)

	// Defaults fill missing rect dimensions
	rect := l.Regions[1].Shape.(RectShape)
	assert.Equal(t, 107.0, rect.Width)
	assert.Equal(t, 48.0, rect.Height)

	rotated := l.Regions[0].Shape.(RectShape)
	assert.Equal(t, 15.0, rotated.RotationDeg)

	assert.Equal(t, 400, l.Regions[2].ThresholdOverride)
	assert.Equal(t, 400, l.EffectiveThreshold(l.Regions[2]))

	require.Len(t, l.RoutePoints, 2)
	assert.Equal(t, "wp0", l.RoutePoints[0].ID)
	assert.Equal(t, "wp1", l.RoutePoints[1].ID)
	assert.Equal(t, 1, l.RoutePoints[1].SequenceIndex)
}

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"name": "bare",
		"spaces": [{"id": "1", "center": {"x": 10, "y": 10}}]
	}`)

	_, err := Parse(data, Defaults{})
	assert.Error(t, err, "no threshold anywhere must fail validation")

	l, err := Parse(data, Defaults{Width: 107, Height: 48, Threshold: 900})
	require.NoError(t, err)
	assert.Equal(t, 900, l.DefaultThreshold)
	rect := l.Regions[0].Shape.(RectShape)
	assert.Equal(t, 107.0, rect.Width)
}

func TestParseRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`{not json`), Defaults{})
	assert.Error(t, err)

	_, err = Parse([]byte(`{"default_threshold": 900, "spaces": [{"id":"1","type":"blob"}]}`), Defaults{})
	assert.Error(t, err)

	_, err = Parse([]byte(`{"default_threshold": 900, "spaces": [{"id":"1","type":"rect"}]}`), Defaults{})
	assert.Error(t, err, "rect without center")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	l := validLayout()
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, Save(l, path))

	got, err := Load(path, Defaults{})
	require.NoError(t, err)
	assert.Equal(t, l.Name, got.Name)
	assert.Equal(t, l.DefaultThreshold, got.DefaultThreshold)
	require.Len(t, got.Regions, len(l.Regions))
	assert.Equal(t, l.Regions[0].Shape, got.Regions[0].Shape)
	require.Len(t, got.RoutePoints, 1)
	assert.Equal(t, l.RoutePoints[0].Coordinates, got.RoutePoints[0].Coordinates)
}
