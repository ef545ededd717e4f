package geobox

import (
	"fmt"
	"strings"

	"github.com/1F47E/geobox/pkg/models"
	"github.com/shopspring/decimal"
)

// RoundDown floors coord to a multiple of scope on a grid anchored at zero.
// A zero scope leaves coord untouched.
func RoundDown(coord, scope decimal.Decimal) decimal.Decimal {
	if scope.IsZero() {
		return coord
	}

	// remainder carries the sign of coord
	remainder := coord.Mod(scope)
	if remainder.IsZero() {
		return coord
	}
	if coord.IsPositive() {
		return coord.Sub(remainder)
	}
	return coord.Sub(remainder).Sub(scope)
}

// BoundingBoxAt returns the grid cell of size scope containing (lat, lon)
func BoundingBoxAt(lat, lon, scope decimal.Decimal) models.BoundingBox {
	bottom := RoundDown(lat, scope)
	left := RoundDown(lon, scope)

	return models.BoundingBox{
		Top:    bottom.Add(scope),
		Left:   left,
		Bottom: bottom,
		Right:  left.Add(scope),
	}
}

// Identifier encodes box as top|left|bottom|right with Places fixed decimals
func (c Config) Identifier(box models.BoundingBox) string {
	parts := [4]string{
		box.Top.StringFixed(c.Places),
		box.Left.StringFixed(c.Places),
		box.Bottom.StringFixed(c.Places),
		box.Right.StringFixed(c.Places),
	}
	return strings.Join(parts[:], c.Delimiter)
}

// Identifiers encodes boxes in order
func (c Config) Identifiers(boxes []models.BoundingBox) []string {
	ids := make([]string, len(boxes))
	for i, box := range boxes {
		ids[i] = c.Identifier(box)
	}
	return ids
}

// ParseIdentifier decodes an identifier produced by Identifier. The result
// carries the quantized values, not the exact grid lines.
func (c Config) ParseIdentifier(id string) (models.BoundingBox, error) {
	parts := strings.Split(id, c.Delimiter)
	if len(parts) != 4 {
		return models.BoundingBox{}, &ConversionError{
			Field: "identifier",
			Input: id,
			Err:   fmt.Errorf("%w: expected 4 components, got %d", errMalformedBox, len(parts)),
		}
	}

	var values [4]decimal.Decimal
	for i, part := range parts {
		v, err := decimal.NewFromString(strings.TrimSpace(part))
		if err != nil {
			return models.BoundingBox{}, &ConversionError{Field: "identifier", Input: id, Err: err}
		}
		values[i] = v
	}

	box := models.BoundingBox{Top: values[0], Left: values[1], Bottom: values[2], Right: values[3]}
	if !box.Top.GreaterThan(box.Bottom) || !box.Right.GreaterThan(box.Left) {
		return models.BoundingBox{}, &ConversionError{Field: "identifier", Input: id, Err: errDegenerateBounds}
	}
	return box, nil
}
