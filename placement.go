package takeoff

import (
	"math"
	"strconv"
)

// LocationBoundary is a named region of the plan, drawn by the user as
// either an axis-aligned rectangle or a simple polygon. Exactly one of
// Rect and Polygon is set. All coordinates are world space.
type LocationBoundary struct {
	ID      string
	Name    string
	Rect    *Rect
	Polygon Polygon
}

// Contains reports whether the world-space point lies inside the
// boundary. Rectangle edges count as inside.
func (b *LocationBoundary) Contains(p Point) bool {
	if b.Rect != nil {
		return b.Rect.Contains(p)
	}
	return b.Polygon.Contains(p)
}

// Stamp is a placed device annotation. Pos is world space and stays put
// under pan and zoom.
type Stamp struct {
	ID         string
	DeviceType string
	Pos        Point
	LocationID string
}

// SnapToGrid snaps a world-space point to the nearest multiple of the
// grid size. The grid lives in world space, so its effective on-screen
// spacing scales with zoom. A non-positive grid size returns the point
// unchanged.
func SnapToGrid(p Point, grid float64) Point {
	if grid <= 0 {
		return p
	}
	return Point{
		X: math.Round(p.X/grid) * grid,
		Y: math.Round(p.Y/grid) * grid,
	}
}

// Sheet holds the annotations of one takeoff session: the ordered list
// of location boundaries (draw order, oldest first) and the placed
// stamps. It consumes the geometry primitives but never touches the
// viewport directly; callers pass the current transform in.
type Sheet struct {
	boundaries []*LocationBoundary
	stamps     []*Stamp

	// GridSize is the world-space snap grid for stamp placement.
	// Zero disables snapping.
	GridSize float64

	nextStamp int
}

// NewSheet creates an empty sheet with snapping disabled.
func NewSheet() *Sheet {
	return &Sheet{}
}

// AddBoundary appends a location boundary on top of the existing ones.
// Later boundaries win hit-testing ties.
func (s *Sheet) AddBoundary(b *LocationBoundary) {
	s.boundaries = append(s.boundaries, b)
}

// Boundaries returns the boundaries in draw order.
func (s *Sheet) Boundaries() []*LocationBoundary {
	return s.boundaries
}

// Stamps returns the placed stamps in placement order.
func (s *Sheet) Stamps() []*Stamp {
	return s.stamps
}

// LocationAt returns the topmost (last-drawn) boundary containing the
// world-space point, or nil when the point is in no location.
func (s *Sheet) LocationAt(p Point) *LocationBoundary {
	for i := len(s.boundaries) - 1; i >= 0; i-- {
		if s.boundaries[i].Contains(p) {
			return s.boundaries[i]
		}
	}
	return nil
}

// PlaceStamp converts a viewport-space click through the given transform
// (the caller must pass the viewport's current transform, not a stale
// snapshot), snaps it to the grid when enabled, auto-assigns the
// containing location, and appends the new stamp.
func (s *Sheet) PlaceStamp(deviceType string, screen Point, tr ViewTransform) *Stamp {
	world := SnapToGrid(ViewportToWorld(screen, tr), s.GridSize)

	st := &Stamp{
		ID:         s.newStampID(),
		DeviceType: deviceType,
		Pos:        world,
	}
	if loc := s.LocationAt(world); loc != nil {
		st.LocationID = loc.ID
	}
	s.stamps = append(s.stamps, st)
	return st
}

// RemoveStamp deletes the stamp with the given ID. Reports whether a
// stamp was removed.
func (s *Sheet) RemoveStamp(id string) bool {
	for i, st := range s.stamps {
		if st.ID == id {
			copy(s.stamps[i:], s.stamps[i+1:])
			s.stamps[len(s.stamps)-1] = nil
			s.stamps = s.stamps[:len(s.stamps)-1]
			return true
		}
	}
	return false
}

// StampAt returns the topmost stamp within radius world units of the
// given world-space point, or nil. Iterates in reverse placement order
// so the most recently placed stamp wins.
func (s *Sheet) StampAt(p Point, radius float64) *Stamp {
	for i := len(s.stamps) - 1; i >= 0; i-- {
		if Distance(s.stamps[i].Pos, p) <= radius {
			return s.stamps[i]
		}
	}
	return nil
}

// ReassignLocations recomputes every stamp's location, e.g. after a
// boundary moved or was deleted.
func (s *Sheet) ReassignLocations() {
	for _, st := range s.stamps {
		st.LocationID = ""
		if loc := s.LocationAt(st.Pos); loc != nil {
			st.LocationID = loc.ID
		}
	}
}

// CountByLocation returns live stamp counts keyed by location ID.
// Stamps outside every boundary count under the empty key.
func (s *Sheet) CountByLocation() map[string]int {
	counts := make(map[string]int)
	for _, st := range s.stamps {
		counts[st.LocationID]++
	}
	return counts
}

// CountByType returns live stamp counts keyed by device type.
func (s *Sheet) CountByType() map[string]int {
	counts := make(map[string]int)
	for _, st := range s.stamps {
		counts[st.DeviceType]++
	}
	return counts
}

func (s *Sheet) newStampID() string {
	s.nextStamp++
	return "stamp-" + strconv.Itoa(s.nextStamp)
}
