package checklist

import (
	"errors"
	"fmt"

	"github.com/Abdullahalbalawi/Bus-inspection-web/pkg/schema"
)

// ErrMarkerOutOfRange is returned for coordinates outside the diagram.
var ErrMarkerOutOfRange = errors.New("checklist: marker outside the diagram")

// MarkerSet is an ordered set of damage markers keyed by rounded coordinates.
type MarkerSet struct {
	markers []schema.DamageMarker
}

// NewMarkerSet creates an empty set.
func NewMarkerSet() *MarkerSet {
	return &MarkerSet{}
}

// Add rounds the coordinates and inserts the marker. It reports false when
// a marker with the same coordinates already exists.
func (s *MarkerSet) Add(x, y float64) (bool, error) {
	m := schema.NewDamageMarker(x, y)
	if !inRange(m.X) || !inRange(m.Y) {
		return false, fmt.Errorf("%w: %s", ErrMarkerOutOfRange, m)
	}
	if s.index(m) >= 0 {
		return false, nil
	}
	s.markers = append(s.markers, m)
	return true, nil
}

// Remove deletes the marker at the rounded coordinates.
func (s *MarkerSet) Remove(x, y float64) bool {
	i := s.index(schema.NewDamageMarker(x, y))
	if i < 0 {
		return false
	}
	s.markers = append(s.markers[:i], s.markers[i+1:]...)
	return true
}

// List returns the markers in insertion order.
func (s *MarkerSet) List() []schema.DamageMarker {
	return append([]schema.DamageMarker{}, s.markers...)
}

// Len returns the number of markers.
func (s *MarkerSet) Len() int { return len(s.markers) }

// Reset removes every marker.
func (s *MarkerSet) Reset() { s.markers = nil }

func (s *MarkerSet) index(m schema.DamageMarker) int {
	for i, existing := range s.markers {
		if existing == m {
			return i
		}
	}
	return -1
}

func inRange(v float64) bool {
	return v >= schema.MarkerCoordMin && v <= schema.MarkerCoordMax
}

// AddMarker places a damage marker on the diagram.
func (f *Form) AddMarker(x, y float64) (schema.DamageMarker, bool, error) {
	if err := f.begin(); err != nil {
		return schema.DamageMarker{}, false, err
	}
	defer f.end()

	added, err := f.markers.Add(x, y)
	return schema.NewDamageMarker(x, y), added, err
}

// RemoveMarker takes a damage marker off the diagram.
func (f *Form) RemoveMarker(x, y float64) (schema.DamageMarker, bool, error) {
	if err := f.begin(); err != nil {
		return schema.DamageMarker{}, false, err
	}
	defer f.end()

	return schema.NewDamageMarker(x, y), f.markers.Remove(x, y), nil
}

// Markers returns the current damage markers.
func (f *Form) Markers() []schema.DamageMarker { return f.markers.List() }
