package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwatch/pkg/geometry"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	f := Default()
	l, err := f.Lot("default")
	require.NoError(t, err)

	assert.Equal(t, 107.0, l.DefaultWidth)
	assert.Equal(t, 48.0, l.DefaultHeight)
	assert.Equal(t, 900, l.DefaultThreshold)
	assert.Equal(t, 5, l.StabilizationFrames)
	assert.NoError(t, l.Processing.Validate())
	assert.NoError(t, l.Routing.Validate())

	d := l.LayoutDefaults()
	assert.Equal(t, 107.0, d.Width)
	assert.Equal(t, 900, d.Threshold)
}

func TestLotFallback(t *testing.T) {
	t.Parallel()

	f := Default()
	l, err := f.Lot("no-such-lot")
	require.NoError(t, err)
	assert.Equal(t, "Default Parking Lot", l.Name)

	empty := &File{Version: 1, Lots: map[string]Lot{}}
	_, err = empty.Lot("anything")
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	f := Default()
	lot := f.Lots["default"]
	lot.Entrance = &geometry.Point2D{X: 12, Y: 340}
	lot.Routing.ConnectionRadius = 180
	f.Lots["garage"] = lot

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, f.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f.Version, got.Version)

	g, err := got.Lot("garage")
	require.NoError(t, err)
	require.NotNil(t, g.Entrance)
	assert.Equal(t, geometry.Point2D{X: 12, Y: 340}, *g.Entrance)
	assert.Equal(t, 180.0, g.Routing.ConnectionRadius)
	assert.Equal(t, f.Lots["default"].Processing, g.Processing)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
