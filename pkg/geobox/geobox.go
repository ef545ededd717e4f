// Package geobox computes fixed-precision grid cell identifiers for a
// coordinate. A point is stored under every cell it falls in across the
// configured scopes, plus the neighbouring cells when it sits close to an
// edge, so a search against the single cell around a query point still finds
// it.
//
// All arithmetic is done on exact decimals. The grid is a plain
// equirectangular decimal grid anchored at 0,0.
package geobox

import (
	"math"
	"strconv"
	"strings"

	"github.com/1F47E/geobox/pkg/models"
	"github.com/shopspring/decimal"
)

// Geobox is an immutable coordinate bound to a grid config
type Geobox struct {
	loc models.Location
	cfg Config
}

// New creates a Geobox for an exact coordinate. A nil cfg uses DefaultConfig.
func New(lat, lon decimal.Decimal, cfg *Config) (*Geobox, error) {
	c := DefaultConfig()
	if cfg != nil {
		c = cfg.clone()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &Geobox{
		loc: models.Location{Lat: lat, Lon: lon},
		cfg: c,
	}, nil
}

// Parse creates a Geobox from decimal strings such as "43.16956"
func Parse(lat, lon string, cfg *Config) (*Geobox, error) {
	latitude, err := parseDecimal("latitude", lat)
	if err != nil {
		return nil, err
	}
	longitude, err := parseDecimal("longitude", lon)
	if err != nil {
		return nil, err
	}
	return New(latitude, longitude, cfg)
}

// FromFloat creates a Geobox from float input using the shortest decimal
// representation of each value, so 42.2 becomes exactly 42.2
func FromFloat(lat, lon float64, cfg *Config) (*Geobox, error) {
	latitude, err := floatDecimal("latitude", lat)
	if err != nil {
		return nil, err
	}
	longitude, err := floatDecimal("longitude", lon)
	if err != nil {
		return nil, err
	}
	return New(latitude, longitude, cfg)
}

// Location returns the coordinate
func (g *Geobox) Location() models.Location {
	return g.loc
}

// Config returns a copy of the grid config
func (g *Geobox) Config() Config {
	return g.cfg.clone()
}

// StorageBoxes returns the cells the point should be stored under, scope by
// scope in ascending order. Within a scope the cell containing the point
// comes first, then the edge neighbours (right, down, left, up), then the
// corner neighbours. Duplicates are kept.
func (g *Geobox) StorageBoxes() []models.BoundingBox {
	var boxes []models.BoundingBox

	for _, scope := range g.cfg.Scopes {
		right := g.ExtendRight(scope)
		down := g.ExtendDown(scope)
		left := g.ExtendLeft(scope)
		up := g.ExtendUp(scope)

		boxes = append(boxes, g.neighbour(scope, 0, 0))

		if right {
			boxes = append(boxes, g.neighbour(scope, 0, 1))
		}
		if down {
			boxes = append(boxes, g.neighbour(scope, -1, 0))
		}
		if left {
			boxes = append(boxes, g.neighbour(scope, 0, -1))
		}
		if up {
			boxes = append(boxes, g.neighbour(scope, 1, 0))
		}

		if left && down {
			boxes = append(boxes, g.neighbour(scope, -1, -1))
		}
		if right && up {
			boxes = append(boxes, g.neighbour(scope, 1, 1))
		}
		if g.cfg.AllCorners {
			if right && down {
				boxes = append(boxes, g.neighbour(scope, -1, 1))
			}
			if left && up {
				boxes = append(boxes, g.neighbour(scope, 1, -1))
			}
		}
	}

	g.cfg.logger().Debug("computed storage geoboxes",
		"lat", g.loc.Lat.String(), "lon", g.loc.Lon.String(), "count", len(boxes))
	return boxes
}

// StorageGeoboxes returns the identifiers of StorageBoxes, in the same order
func (g *Geobox) StorageGeoboxes() []string {
	return g.cfg.Identifiers(g.StorageBoxes())
}

// SearchBox returns the single cell to query at the configured scope nearest
// to scope. No neighbours are added.
func (g *Geobox) SearchBox(scope decimal.Decimal) models.BoundingBox {
	snapped := g.cfg.NearestScope(scope)
	g.cfg.logger().Debug("creating search geobox",
		"scope", scope.String(), "snapped", snapped.String(),
		"lat", g.loc.Lat.String(), "lon", g.loc.Lon.String())

	return BoundingBoxAt(g.loc.Lat, g.loc.Lon, snapped)
}

// SearchGeobox returns the identifier of SearchBox
func (g *Geobox) SearchGeobox(scope decimal.Decimal) string {
	return g.cfg.Identifier(g.SearchBox(scope))
}

// SearchGeoboxString is SearchGeobox for a decimal string scope
func (g *Geobox) SearchGeoboxString(scope string) (string, error) {
	s, err := parseDecimal("scope", scope)
	if err != nil {
		return "", err
	}
	return g.SearchGeobox(s), nil
}

// ExtendDown reports whether the point is within the margin of the bottom edge
func (g *Geobox) ExtendDown(scope decimal.Decimal) bool {
	bottom := RoundDown(g.loc.Lat, scope)
	return g.near(g.loc.Lat.Sub(bottom), scope)
}

// ExtendUp reports whether the point is within the margin of the top edge
func (g *Geobox) ExtendUp(scope decimal.Decimal) bool {
	top := RoundDown(g.loc.Lat, scope).Add(scope)
	return g.near(top.Sub(g.loc.Lat), scope)
}

// ExtendLeft reports whether the point is within the margin of the left edge
func (g *Geobox) ExtendLeft(scope decimal.Decimal) bool {
	left := RoundDown(g.loc.Lon, scope)
	return g.near(g.loc.Lon.Sub(left), scope)
}

// ExtendRight reports whether the point is within the margin of the right edge
func (g *Geobox) ExtendRight(scope decimal.Decimal) bool {
	right := RoundDown(g.loc.Lon, scope).Add(scope)
	return g.near(right.Sub(g.loc.Lon), scope)
}

// MarginWidth is the distance from an edge that still counts as near it
func (g *Geobox) MarginWidth(scope decimal.Decimal) decimal.Decimal {
	return scope.Mul(g.cfg.Margin)
}

func (g *Geobox) near(distance, scope decimal.Decimal) bool {
	return distance.Abs().LessThan(g.MarginWidth(scope))
}

// neighbour shifts the point by whole cells before locating its box
func (g *Geobox) neighbour(scope decimal.Decimal, dLat, dLon int64) models.BoundingBox {
	lat := g.loc.Lat.Add(scope.Mul(decimal.NewFromInt(dLat)))
	lon := g.loc.Lon.Add(scope.Mul(decimal.NewFromInt(dLon)))
	return BoundingBoxAt(lat, lon, scope)
}

func parseDecimal(field, input string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(input))
	if err != nil {
		return decimal.Decimal{}, &ConversionError{Field: field, Input: input, Err: err}
	}
	return v, nil
}

func floatDecimal(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Decimal{}, &ConversionError{
			Field: field,
			Input: strconv.FormatFloat(v, 'g', -1, 64),
			Err:   errNotFinite,
		}
	}
	return decimal.NewFromFloat(v), nil
}
