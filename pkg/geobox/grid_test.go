package geobox

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/1F47E/geobox/pkg/models"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	cfg := DefaultConfig()

	testCases := []struct {
		name     string
		box      models.BoundingBox
		expected string
	}{
		{
			"pads to three places",
			models.BoundingBox{Top: dec("43"), Left: dec("-84"), Bottom: dec("42"), Right: dec("-83")},
			center,
		},
		{
			"rounds half away from zero",
			models.BoundingBox{Top: dec("43.175"), Left: dec("-77.6125"), Bottom: dec("43.1625"), Right: dec("-77.6")},
			"43.175|-77.613|43.163|-77.600",
		},
		{
			"rounds below half down",
			models.BoundingBox{Top: dec("0.00625"), Left: dec("-0.00625"), Bottom: dec("0"), Right: dec("0")},
			"0.006|-0.006|0.000|0.000",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cfg.Identifier(tc.box))
		})
	}
}

func TestIdentifierDelimiter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Delimiter = ":"
	cfg.Places = 1

	box := models.BoundingBox{Top: dec("43"), Left: dec("-84"), Bottom: dec("42"), Right: dec("-83")}
	assert.Equal(t, "43.0:-84.0:42.0:-83.0", cfg.Identifier(box))
}

func TestParseIdentifier(t *testing.T) {
	cfg := DefaultConfig()

	box, err := cfg.ParseIdentifier(left)
	require.NoError(t, err)
	assertDecimal(t, "43", box.Top)
	assertDecimal(t, "-85", box.Left)
	assertDecimal(t, "42", box.Bottom)
	assertDecimal(t, "-84", box.Right)
	assert.Equal(t, left, cfg.Identifier(box))

	for _, bad := range []string{"", "1|2|3", "43.000|west|42.000|-83.000", "42.000|-84.000|43.000|-83.000"} {
		_, err := cfg.ParseIdentifier(bad)
		var convErr *ConversionError
		require.True(t, errors.As(err, &convErr), "%q should fail", bad)
		assert.Equal(t, "identifier", convErr.Field)
	}
}

func TestFeatureCollection(t *testing.T) {
	pt, err := Parse("42.2", "-83.8", unitGrid(t))
	require.NoError(t, err)

	cfg := pt.Config()
	boxes := pt.StorageBoxes()
	fc := cfg.FeatureCollection(boxes)
	require.Len(t, fc.Features, len(boxes))

	first := fc.Features[0]
	assert.Equal(t, center, first.Properties["geobox"])
	assert.Equal(t, "1", first.Properties["scope"])

	polygon, ok := first.Geometry.(orb.Polygon)
	require.True(t, ok)
	bound := polygon.Bound()
	assert.Equal(t, orb.Point{-84, 42}, bound.Min)
	assert.Equal(t, orb.Point{-83, 43}, bound.Max)

	raw, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"FeatureCollection"`)
	assert.Contains(t, string(raw), leftDown)
}
