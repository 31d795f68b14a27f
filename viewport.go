package takeoff

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Padding factors applied when deriving a zoom from a fit operation.
const (
	fitViewPadding      = 0.9
	fitSelectionPadding = 0.8
)

// Size is the on-screen pixel size of the viewport container.
type Size struct {
	Width, Height float64
}

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

type changeHandler struct {
	id uint32
	fn func()
}

// ChangeHandle allows removing a registered viewport change callback.
type ChangeHandle struct {
	id uint32
	vp *Viewport
}

// Remove unregisters this callback so it no longer fires.
func (h ChangeHandle) Remove() {
	if h.vp == nil {
		return
	}
	s := h.vp.handlers
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = changeHandler{}
			h.vp.handlers = s[:len(s)-1]
			return
		}
	}
}

// Viewport is the single source of truth for the camera position, zoom
// factor, viewport dimensions, and document bounds. All writes go through
// its mutator methods, which re-derive a clamped, consistent state; the
// fields are never assigned directly by consumers.
//
// Invariants maintained on every mutation:
//   - ZoomMin <= zoom <= ZoomMax.
//   - The camera is confined per axis to
//     [min(0, doc-visible), max(0, doc-visible)], where visible is the
//     world-space size of the viewport (size/zoom). When the document is
//     larger than the viewport this keeps the document maximally
//     on-screen; when it is smaller the camera may go negative so the
//     content can still be centered. The two cases must not be unified
//     into a tighter clamp or small-document centering breaks.
//
// A Viewport is session-scoped: it holds no persistent state and is
// discarded when the hosting view goes away. It is not safe for
// concurrent use; all mutations are expected to happen on the event loop
// driving the UI.
type Viewport struct {
	camera Point
	zoom   float64
	size   Size
	bounds *DocumentBounds

	version   uint64
	committed committedState
	handlers  []changeHandler
	nextID    uint32

	scrollTween *scrollAnim
}

// NewViewport creates a Viewport with the default state: camera at the
// origin, zoom 1.0, zero size, and no document bounds.
func NewViewport() *Viewport {
	return &Viewport{zoom: 1.0, committed: committedState{zoom: 1.0}}
}

// Camera returns the world-space point aligned to the viewport's
// top-left corner.
func (v *Viewport) Camera() Point { return v.camera }

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Size returns the viewport's on-screen pixel dimensions.
func (v *Viewport) Size() Size { return v.size }

// DocumentBounds returns the current document bounds, or nil before a
// document has loaded.
func (v *Viewport) DocumentBounds() *DocumentBounds { return v.bounds }

// Transform returns the camera/zoom pair for coordinate conversion.
// Both the content layer and any annotation overlay must render from the
// same Transform value to stay pixel-aligned.
func (v *Viewport) Transform() ViewTransform {
	return ViewTransform{Camera: v.camera, Zoom: v.zoom}
}

// Version returns a counter that increases on every effective state
// change. Consumers that cache derived data (CSS transforms, redraw
// buffers) compare versions instead of diffing fields.
func (v *Viewport) Version() uint64 { return v.version }

// OnChange registers fn to run after every effective state change.
func (v *Viewport) OnChange(fn func()) ChangeHandle {
	v.nextID++
	id := v.nextID
	v.handlers = append(v.handlers, changeHandler{id: id, fn: fn})
	return ChangeHandle{id: id, vp: v}
}

// VisibleWorldRect returns the world-space rectangle currently visible.
func (v *Viewport) VisibleWorldRect() Rect {
	return Rect{
		X:      v.camera.X,
		Y:      v.camera.Y,
		Width:  v.size.Width / v.zoom,
		Height: v.size.Height / v.zoom,
	}
}

// SetCamera moves the camera to the given world-space point, clamped
// against the current zoom, viewport size, and document bounds.
func (v *Viewport) SetCamera(p Point) {
	v.cancelScroll()
	v.camera = p
	v.clampCamera()
	v.commit()
}

// Pan moves the camera by a world-space delta, then clamps.
func (v *Viewport) Pan(delta Point) {
	v.cancelScroll()
	v.camera = v.camera.Add(delta)
	v.clampCamera()
	v.commit()
}

// ZoomAbout sets the zoom factor, keeping the world point currently under
// the viewport-space pivot visually fixed. The zoom is clamped to
// [ZoomMin, ZoomMax] and the camera re-clamped afterwards.
func (v *Viewport) ZoomAbout(pivot Point, zoom float64) {
	v.cancelScroll()
	world := ZoomPivotWorld(pivot, v.Transform())
	v.zoom = clamp(zoom, ZoomMin, ZoomMax)
	v.camera = CameraForZoom(world, pivot, v.zoom)
	v.clampCamera()
	v.commit()
}

// SetZoom sets the zoom factor, keeping the world point at the viewport
// center visually fixed. With a zero-size viewport the camera is left in
// place and only re-clamped.
func (v *Viewport) SetZoom(zoom float64) {
	if v.size.Width > 0 && v.size.Height > 0 {
		v.ZoomAbout(Point{X: v.size.Width / 2, Y: v.size.Height / 2}, zoom)
		return
	}
	v.cancelScroll()
	v.zoom = clamp(zoom, ZoomMin, ZoomMax)
	v.clampCamera()
	v.commit()
}

// ZoomIn increases the zoom by ZoomStep about the viewport center.
func (v *Viewport) ZoomIn() { v.SetZoom(v.zoom + ZoomStep) }

// ZoomOut decreases the zoom by ZoomStep about the viewport center.
func (v *Viewport) ZoomOut() { v.SetZoom(v.zoom - ZoomStep) }

// SetSize records the viewport's on-screen pixel dimensions, typically
// from a container resize callback, and re-clamps the camera.
func (v *Viewport) SetSize(s Size) {
	v.size = s
	v.clampCamera()
	v.commit()
}

// SetDocumentBounds installs the bounds of a (re)loaded document and
// re-clamps the camera. A nil bounds removes camera confinement.
func (v *Viewport) SetDocumentBounds(b *DocumentBounds) {
	v.bounds = b
	v.clampCamera()
	v.commit()
}

// FitToView zooms so the whole document fits the viewport with 10%
// padding and centers it. No-op when the document bounds are unknown, the
// viewport has zero area, or the document is degenerate.
func (v *Viewport) FitToView() {
	if v.bounds == nil || v.size.Width <= 0 || v.size.Height <= 0 {
		return
	}
	if v.bounds.Width <= 0 || v.bounds.Height <= 0 {
		return
	}
	v.cancelScroll()
	zoom := min(v.size.Width/v.bounds.Width, v.size.Height/v.bounds.Height) * fitViewPadding
	v.zoom = clamp(zoom, ZoomMin, ZoomMax)
	v.centerOn(Point{X: v.bounds.Width / 2, Y: v.bounds.Height / 2})
	v.commit()
}

// ResetZoom restores zoom 1.0, leaving the camera in place apart from
// re-clamping.
func (v *Viewport) ResetZoom() {
	v.cancelScroll()
	v.zoom = 1.0
	v.clampCamera()
	v.commit()
}

// ZoomToRect zooms so the given world-space rectangle fills the viewport
// with 20% padding, centered. No-op when the viewport has zero area or
// the rectangle is degenerate.
func (v *Viewport) ZoomToRect(r Rect) {
	if v.size.Width <= 0 || v.size.Height <= 0 || r.Width <= 0 || r.Height <= 0 {
		return
	}
	v.cancelScroll()
	zoom := min(v.size.Width/r.Width, v.size.Height/r.Height) * fitSelectionPadding
	v.zoom = clamp(zoom, ZoomMin, ZoomMax)
	v.centerOn(r.Center())
	v.commit()
}

// ScrollTo animates the camera to the given world position over duration
// seconds. The animation advances through [Viewport.Update] and is
// cancelled by any direct camera or zoom mutation.
func (v *Viewport) ScrollTo(target Point, duration float32, easeFn ease.TweenFunc) {
	v.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(v.camera.X), float32(target.X), duration, easeFn),
		tweenY: gween.New(float32(v.camera.Y), float32(target.Y), duration, easeFn),
	}
}

// ScrollToPage animates the camera so the given 1-indexed page's top-left
// corner reaches the viewport origin. No-op for unknown pages.
func (v *Viewport) ScrollToPage(pageNumber int, duration float32, easeFn ease.TweenFunc) {
	r, ok := v.bounds.PageRect(pageNumber)
	if !ok {
		return
	}
	v.ScrollTo(Point{X: r.X, Y: r.Y}, duration, easeFn)
}

// Update advances any active scroll animation by dt seconds. Call once
// per frame.
func (v *Viewport) Update(dt float32) {
	t := v.scrollTween
	if t == nil {
		return
	}
	if !t.doneX {
		val, done := t.tweenX.Update(dt)
		v.camera.X = float64(val)
		t.doneX = done
	}
	if !t.doneY {
		val, done := t.tweenY.Update(dt)
		v.camera.Y = float64(val)
		t.doneY = done
	}
	if t.doneX && t.doneY {
		v.scrollTween = nil
	}
	v.clampCamera()
	v.commit()
}

func (v *Viewport) cancelScroll() {
	v.scrollTween = nil
}

// centerOn positions the camera so the given world point sits at the
// viewport center, then clamps.
func (v *Viewport) centerOn(world Point) {
	v.camera = Point{
		X: world.X - v.size.Width/v.zoom/2,
		Y: world.Y - v.size.Height/v.zoom/2,
	}
	v.clampCamera()
}

// clampCamera confines the camera per axis to
// [min(0, doc-visible), max(0, doc-visible)]. No-op without document
// bounds or with a zero zoom.
func (v *Viewport) clampCamera() {
	if v.bounds == nil || v.zoom <= 0 {
		return
	}
	overW := v.bounds.Width - v.size.Width/v.zoom
	overH := v.bounds.Height - v.size.Height/v.zoom
	v.camera.X = clamp(v.camera.X, min(0, overW), max(0, overW))
	v.camera.Y = clamp(v.camera.Y, min(0, overH), max(0, overH))
}

// committedState is the last state observed by subscribers, used to
// suppress no-op notifications.
type committedState struct {
	camera Point
	zoom   float64
	size   Size
	bounds *DocumentBounds
}

// commit bumps the version and notifies subscribers, but only when a
// mutator actually moved the state. Mutations that clamp back to the
// previous values stay invisible to consumers.
func (v *Viewport) commit() {
	next := committedState{camera: v.camera, zoom: v.zoom, size: v.size, bounds: v.bounds}
	if next == v.committed {
		return
	}
	v.committed = next
	v.version++
	for _, h := range v.handlers {
		h.fn()
	}
}
