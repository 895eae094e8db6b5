// Package geo implements the offline suburb-to-region assignment: WKT
// geometry parsing, a local planar projection, polygon containment and the
// deterministic assignment pipeline behind cmd/regiongen.
package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrUnsupportedWKT = errors.New("unsupported WKT geometry")

// Point is a WGS84 coordinate (longitude, latitude in degrees).
type Point struct {
	Lon float64
	Lat float64
}

// Ring is a closed sequence of points. Only outer rings are kept; holes
// are an accepted approximation loss for this dataset.
type Ring []Point

// ParseWKT parses a POLYGON or MULTIPOLYGON and returns one outer ring
// per polygon.
func ParseWKT(wkt string) ([]Ring, error) {
	s := strings.TrimSpace(wkt)
	upper := strings.ToUpper(s)

	switch {
	case strings.HasPrefix(upper, "POLYGON"):
		body, err := parenBody(s[len("POLYGON"):])
		if err != nil {
			return nil, err
		}
		ring, err := parseOuterRing(body)
		if err != nil {
			return nil, err
		}
		return []Ring{ring}, nil

	case strings.HasPrefix(upper, "MULTIPOLYGON"):
		body, err := parenBody(s[len("MULTIPOLYGON"):])
		if err != nil {
			return nil, err
		}
		groups, err := splitTopLevel(body)
		if err != nil {
			return nil, err
		}
		rings := make([]Ring, 0, len(groups))
		for _, group := range groups {
			inner, err := parenBody(group)
			if err != nil {
				return nil, err
			}
			ring, err := parseOuterRing(inner)
			if err != nil {
				return nil, err
			}
			rings = append(rings, ring)
		}
		return rings, nil

	default:
		return nil, fmt.Errorf("%w: %.20q", ErrUnsupportedWKT, s)
	}
}

// parenBody strips one outer level of parentheses, tolerating leading
// whitespace.
func parenBody(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return "", fmt.Errorf("%w: missing parentheses", ErrUnsupportedWKT)
	}
	return s[1 : len(s)-1], nil
}

// splitTopLevel splits a comma-separated list at depth zero, so nested
// ring lists stay intact.
func splitTopLevel(s string) ([]string, error) {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced parentheses", ErrUnsupportedWKT)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced parentheses", ErrUnsupportedWKT)
	}
	parts = append(parts, s[start:])
	return parts, nil
}

// parseOuterRing parses the first (outer) ring of a polygon body and
// ignores any hole rings after it.
func parseOuterRing(body string) (Ring, error) {
	rings, err := splitTopLevel(body)
	if err != nil {
		return nil, err
	}
	if len(rings) == 0 {
		return nil, fmt.Errorf("%w: empty polygon", ErrUnsupportedWKT)
	}

	outer, err := parenBody(rings[0])
	if err != nil {
		return nil, err
	}

	coords := strings.Split(outer, ",")
	ring := make(Ring, 0, len(coords))
	for _, pair := range coords {
		fields := strings.Fields(pair)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: bad coordinate %q", ErrUnsupportedWKT, pair)
		}
		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad longitude %q", ErrUnsupportedWKT, fields[0])
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad latitude %q", ErrUnsupportedWKT, fields[1])
		}
		ring = append(ring, Point{Lon: lon, Lat: lat})
	}
	if len(ring) < 3 {
		return nil, fmt.Errorf("%w: ring needs at least 3 points", ErrUnsupportedWKT)
	}
	return ring, nil
}
