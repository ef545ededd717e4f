package models

import (
	"github.com/paulmach/orb"
	"github.com/shopspring/decimal"
)

// Location represents a geographic location held as exact decimals
type Location struct {
	Lat decimal.Decimal `json:"lat"`
	Lon decimal.Decimal `json:"lon"`
}

// BoundingBox represents one grid cell, stored in identifier order
type BoundingBox struct {
	Top    decimal.Decimal `json:"top"`
	Left   decimal.Decimal `json:"left"`
	Bottom decimal.Decimal `json:"bottom"`
	Right  decimal.Decimal `json:"right"`
}

// Size returns the side length of the box
func (b BoundingBox) Size() decimal.Decimal {
	return b.Top.Sub(b.Bottom)
}

// Contains reports whether loc lies in the half-open cell [bottom, top) x [left, right)
func (b BoundingBox) Contains(loc Location) bool {
	return b.Bottom.LessThanOrEqual(loc.Lat) && loc.Lat.LessThan(b.Top) &&
		b.Left.LessThanOrEqual(loc.Lon) && loc.Lon.LessThan(b.Right)
}

// Bound converts the box to an orb.Bound. Points are (lon, lat), so the
// conversion goes through float64 and is not exact.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Left.InexactFloat64(), b.Bottom.InexactFloat64()},
		Max: orb.Point{b.Right.InexactFloat64(), b.Top.InexactFloat64()},
	}
}
