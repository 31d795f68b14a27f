package takeoff

import "math"

// Zoom limits and step shared by the viewport and gesture layers.
const (
	ZoomMin  = 0.1
	ZoomMax  = 5.0
	ZoomStep = 0.1
)

// Point is a 2D coordinate. Whether a Point is in world space or in
// viewport (screen) space depends on context; every function in this
// package documents which space it consumes and produces.
type Point struct {
	X, Y float64
}

// Add returns p + q component-wise.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q component-wise.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin
// at the top-left, with Y increasing downward. Width and Height are
// never negative.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// ClampPoint clamps p per axis into [r.X, r.X+Width] x [r.Y, r.Y+Height].
func (r Rect) ClampPoint(p Point) Point {
	return Point{
		X: clamp(p.X, r.X, r.X+r.Width),
		Y: clamp(p.Y, r.Y, r.Y+r.Height),
	}
}

// ViewTransform is the camera/zoom pair that maps world space to viewport
// space. Camera is the world-space point aligned to the viewport's
// top-left corner; Zoom is the scale factor (1.0 = no zoom).
type ViewTransform struct {
	Camera Point
	Zoom   float64
}

// ViewportToWorld converts a viewport-space point to world space:
// world = screen/zoom + camera.
func ViewportToWorld(screen Point, t ViewTransform) Point {
	return Point{
		X: screen.X/t.Zoom + t.Camera.X,
		Y: screen.Y/t.Zoom + t.Camera.Y,
	}
}

// WorldToViewport converts a world-space point to viewport space:
// screen = (world - camera) * zoom. Exact algebraic inverse of
// [ViewportToWorld].
func WorldToViewport(world Point, t ViewTransform) Point {
	return Point{
		X: (world.X - t.Camera.X) * t.Zoom,
		Y: (world.Y - t.Camera.Y) * t.Zoom,
	}
}

// ViewportRectToWorld converts a viewport-space rectangle to world space.
func ViewportRectToWorld(r Rect, t ViewTransform) Rect {
	tl := ViewportToWorld(Point{X: r.X, Y: r.Y}, t)
	return Rect{X: tl.X, Y: tl.Y, Width: r.Width / t.Zoom, Height: r.Height / t.Zoom}
}

// WorldRectToViewport converts a world-space rectangle to viewport space.
func WorldRectToViewport(r Rect, t ViewTransform) Rect {
	tl := WorldToViewport(Point{X: r.X, Y: r.Y}, t)
	return Rect{X: tl.X, Y: tl.Y, Width: r.Width * t.Zoom, Height: r.Height * t.Zoom}
}

// ZoomPivotWorld returns the world point currently under the given cursor
// position. Identical to [ViewportToWorld]; the name documents intent at
// zoom-gesture call sites.
func ZoomPivotWorld(cursor Point, t ViewTransform) Point {
	return ViewportToWorld(cursor, t)
}

// CameraForZoom solves for the camera position that keeps world rendered
// exactly at the viewport-space point cursor after changing the zoom to
// newZoom: camera = world - cursor/newZoom.
func CameraForZoom(world, cursor Point, newZoom float64) Point {
	return Point{
		X: world.X - cursor.X/newZoom,
		Y: world.Y - cursor.Y/newZoom,
	}
}

// BoundingRect returns the minimal axis-aligned rectangle covering all
// points. ok is false when points is empty. A single point yields a
// zero-size rectangle at that point.
func BoundingRect(points []Point) (r Rect, ok bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Lerp interpolates component-wise between p1 and p2. t=0 returns p1
// exactly and t=1 returns p2 exactly; t is not clamped.
func Lerp(p1, p2 Point, t float64) Point {
	if t == 0 {
		return p1
	}
	if t == 1 {
		return p2
	}
	return Point{
		X: p1.X + (p2.X-p1.X)*t,
		Y: p1.Y + (p2.Y-p1.Y)*t,
	}
}

// Midpoint returns the point halfway between p1 and p2.
func Midpoint(p1, p2 Point) Point {
	return Point{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}
}

// Polygon is a simple (non-self-intersecting) polygon. The winding order
// does not matter.
type Polygon []Point

// Contains reports whether p lies inside the polygon using the even-odd
// ray-casting rule. Location boundaries may be concave, so this is a
// general test rather than a convex-only one.
func (poly Polygon) Contains(p Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := poly[i].X, poly[i].Y
		xj, yj := poly[j].X, poly[j].Y
		if (yi > p.Y) != (yj > p.Y) &&
			p.X < (xj-xi)*(p.Y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
