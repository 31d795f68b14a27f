package takeoff

import (
	"testing"
	"time"
)

// fakeClock drives the coordinator's wheel throttle deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCoordinator(cb Callbacks) (*Coordinator, *Viewport, *fakeClock) {
	v := NewViewport()
	v.SetSize(Size{800, 600})
	c := NewCoordinator(v, cb)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c.now = clock.now
	return c, v, clock
}

func TestMiddleButtonPan(t *testing.T) {
	var starts, ends int
	c, v, _ := newTestCoordinator(Callbacks{
		OnPanStart: func() { starts++ },
		OnPanEnd:   func() { ends++ },
	})

	c.PointerDown(PointerEvent{ID: 1, Pos: Point{100, 100}, Button: PointerMiddle, OnCanvas: true})
	if c.State() != GesturePanning {
		t.Fatalf("state = %v, want panning", c.State())
	}
	c.PointerMove(PointerEvent{ID: 1, Pos: Point{110, 120}})
	if !pointsClose(v.Camera(), Point{10, 20}, epsilon) {
		t.Errorf("camera = %v, want {10 20}", v.Camera())
	}
	// Incremental anchoring: a second move pans by its own delta.
	c.PointerMove(PointerEvent{ID: 1, Pos: Point{105, 120}})
	if !pointsClose(v.Camera(), Point{5, 20}, epsilon) {
		t.Errorf("camera = %v, want {5 20}", v.Camera())
	}
	c.PointerUp(PointerEvent{ID: 1, Pos: Point{105, 120}})
	if c.State() != GestureIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
	if starts != 1 || ends != 1 {
		t.Errorf("pan callbacks = %d/%d, want 1/1", starts, ends)
	}
}

func TestPanDeltaScalesWithZoom(t *testing.T) {
	c, v, _ := newTestCoordinator(Callbacks{})
	v.SetZoom(2)
	v.SetCamera(Point{0, 0})

	c.PointerDown(PointerEvent{ID: 1, Pos: Point{0, 0}, Button: PointerMiddle})
	c.PointerMove(PointerEvent{ID: 1, Pos: Point{100, 60}})
	if !pointsClose(v.Camera(), Point{50, 30}, epsilon) {
		t.Errorf("camera = %v, want {50 30}", v.Camera())
	}
}

func TestLeftButtonPanRules(t *testing.T) {
	c, v, _ := newTestCoordinator(Callbacks{})

	// Left on the drawing surface is reserved for annotation tools.
	c.PointerDown(PointerEvent{ID: 1, Pos: Point{0, 0}, Button: PointerLeft, OnCanvas: true})
	if c.State() != GestureIdle {
		t.Error("left-on-canvas started a pan")
	}
	c.PointerUp(PointerEvent{ID: 1})

	// Left outside the drawing surface pans.
	c.PointerDown(PointerEvent{ID: 2, Pos: Point{0, 0}, Button: PointerLeft, OnCanvas: false})
	if c.State() != GesturePanning {
		t.Error("left-off-canvas did not start a pan")
	}
	c.PointerUp(PointerEvent{ID: 2})

	// With space held, left pans even on the canvas.
	c.KeyDown(KeyEvent{Key: KeySpace})
	c.PointerDown(PointerEvent{ID: 3, Pos: Point{0, 0}, Button: PointerLeft, OnCanvas: true})
	if c.State() != GesturePanning {
		t.Error("space+left did not start a pan")
	}
	c.PointerMove(PointerEvent{ID: 3, Pos: Point{-30, 0}})
	if !pointsClose(v.Camera(), Point{-30, 0}, epsilon) {
		t.Errorf("camera = %v, want {-30 0}", v.Camera())
	}
	c.PointerUp(PointerEvent{ID: 3})
	c.KeyUp(KeyEvent{Key: KeySpace})

	// Space released: back to the canvas rule.
	c.PointerDown(PointerEvent{ID: 4, Pos: Point{0, 0}, Button: PointerLeft, OnCanvas: true})
	if c.State() != GestureIdle {
		t.Error("left-on-canvas pans after space release")
	}
}

func TestPinchZoom(t *testing.T) {
	var zoomStarts, zoomEnds, panEnds int
	c, v, _ := newTestCoordinator(Callbacks{
		OnPanEnd:    func() { panEnds++ },
		OnZoomStart: func() { zoomStarts++ },
		OnZoomEnd:   func() { zoomEnds++ },
	})

	// First finger starts a pan; the second converts it into a pinch.
	c.PointerDown(PointerEvent{ID: 1, Pos: Point{40, 0}, Button: PointerLeft, OnCanvas: false})
	c.PointerDown(PointerEvent{ID: 2, Pos: Point{60, 0}, Button: PointerLeft, OnCanvas: false})
	if c.State() != GesturePinching {
		t.Fatalf("state = %v, want pinching", c.State())
	}
	if panEnds != 1 {
		t.Errorf("pan yielded %d times, want 1", panEnds)
	}

	// Fingers spread from 20px apart to 40px: zoom doubles about the
	// midpoint (50, 0).
	c.PointerMove(PointerEvent{ID: 1, Pos: Point{30, 0}})
	c.PointerMove(PointerEvent{ID: 2, Pos: Point{70, 0}})
	if !approxEqual(v.Zoom(), 2.0, 1e-6) {
		t.Errorf("zoom = %f, want 2.0", v.Zoom())
	}

	c.PointerUp(PointerEvent{ID: 1, Pos: Point{30, 0}})
	if c.State() != GestureIdle {
		t.Errorf("state = %v, want idle after one finger lifts", c.State())
	}
	if zoomEnds != 0 {
		t.Error("OnZoomEnd fired while a pointer is still down")
	}
	c.PointerUp(PointerEvent{ID: 2, Pos: Point{70, 0}})
	if zoomStarts != 1 || zoomEnds != 1 {
		t.Errorf("zoom callbacks = %d/%d, want 1/1", zoomStarts, zoomEnds)
	}
}

func TestPinchKeepsMidpointFixed(t *testing.T) {
	c, v, _ := newTestCoordinator(Callbacks{})
	c.PointerDown(PointerEvent{ID: 1, Pos: Point{40, 0}, Button: PointerLeft, OnCanvas: false})
	c.PointerDown(PointerEvent{ID: 2, Pos: Point{60, 0}, Button: PointerLeft, OnCanvas: false})

	// Each move re-zooms about the current midpoint: the world point
	// sitting under it must not drift across that move.
	mid := Point{60, 0}
	before := ViewportToWorld(mid, v.Transform())
	c.PointerMove(PointerEvent{ID: 2, Pos: Point{80, 0}})
	after := ViewportToWorld(mid, v.Transform())
	if !pointsClose(before, after, 1e-6) {
		t.Errorf("world under midpoint drifted: %v -> %v", before, after)
	}
	if !approxEqual(v.Zoom(), 2.0, 1e-6) {
		t.Errorf("zoom = %f, want 2.0", v.Zoom())
	}
}

func TestWheelPan(t *testing.T) {
	c, v, clock := newTestCoordinator(Callbacks{})

	if !c.Wheel(WheelEvent{Pos: Point{400, 300}, DeltaY: 30, Mode: WheelPixels}) {
		t.Error("wheel not consumed while enabled")
	}
	if !pointsClose(v.Camera(), Point{0, -30}, epsilon) {
		t.Errorf("camera = %v, want {0 -30}", v.Camera())
	}

	// Line mode scales to pixels.
	clock.advance(20 * time.Millisecond)
	c.Wheel(WheelEvent{Pos: Point{400, 300}, DeltaY: 1, Mode: WheelLines})
	if !pointsClose(v.Camera(), Point{0, -70}, epsilon) {
		t.Errorf("camera = %v, want {0 -70}", v.Camera())
	}

	// Pan distance is world space, so it shrinks at higher zoom.
	v.SetZoom(2)
	v.SetCamera(Point{0, 0})
	clock.advance(20 * time.Millisecond)
	c.Wheel(WheelEvent{Pos: Point{400, 300}, DeltaX: 10, Mode: WheelPixels})
	if !pointsClose(v.Camera(), Point{-5, 0}, epsilon) {
		t.Errorf("camera = %v, want {-5 0}", v.Camera())
	}
}

func TestWheelZoom(t *testing.T) {
	c, v, _ := newTestCoordinator(Callbacks{})
	cursor := Point{400, 300}
	before := ViewportToWorld(cursor, v.Transform())

	c.Wheel(WheelEvent{Pos: cursor, DeltaY: -100, Mode: WheelPixels, Ctrl: true})

	// zoom *= 1 - (-100 * 0.002) = 1.2
	if !approxEqual(v.Zoom(), 1.2, 1e-9) {
		t.Errorf("zoom = %f, want 1.2", v.Zoom())
	}
	after := ViewportToWorld(cursor, v.Transform())
	if !pointsClose(before, after, 1e-6) {
		t.Errorf("world under cursor moved: %v -> %v", before, after)
	}
}

func TestWheelThrottle(t *testing.T) {
	c, v, clock := newTestCoordinator(Callbacks{})

	// Three events inside one 16ms window: only the first mutates.
	for i := 0; i < 3; i++ {
		if !c.Wheel(WheelEvent{DeltaY: 10, Mode: WheelPixels}) {
			t.Error("throttled wheel must still report consumed")
		}
		clock.advance(5 * time.Millisecond)
	}
	if !pointsClose(v.Camera(), Point{0, -10}, epsilon) {
		t.Errorf("camera = %v, want {0 -10} (one event processed)", v.Camera())
	}

	// Spaced past the window, every event lands.
	v.SetCamera(Point{0, 0})
	for i := 0; i < 3; i++ {
		clock.advance(20 * time.Millisecond)
		c.Wheel(WheelEvent{DeltaY: 10, Mode: WheelPixels})
	}
	if !pointsClose(v.Camera(), Point{0, -30}, epsilon) {
		t.Errorf("camera = %v, want {0 -30} (all events processed)", v.Camera())
	}
}

func TestWheelZoomEndDebounce(t *testing.T) {
	var starts, ends int
	c, _, clock := newTestCoordinator(Callbacks{
		OnZoomStart: func() { starts++ },
		OnZoomEnd:   func() { ends++ },
	})

	c.Wheel(WheelEvent{DeltaY: -10, Mode: WheelPixels, Ctrl: true})
	c.Frame() // event landed this frame, burst still live
	if ends != 0 {
		t.Fatal("OnZoomEnd fired while the burst is live")
	}

	clock.advance(20 * time.Millisecond)
	c.Wheel(WheelEvent{DeltaY: -10, Mode: WheelPixels, Ctrl: true})
	c.Frame()
	c.Frame() // first quiet frame: burst over
	if starts != 1 {
		t.Errorf("OnZoomStart fired %d times, want once per burst", starts)
	}
	if ends != 1 {
		t.Errorf("OnZoomEnd fired %d times, want 1", ends)
	}
	c.Frame()
	if ends != 1 {
		t.Errorf("OnZoomEnd re-fired, count = %d", ends)
	}
}

func TestKeyboardPan(t *testing.T) {
	c, v, _ := newTestCoordinator(Callbacks{})

	if !c.KeyDown(KeyEvent{Key: KeyArrowRight}) {
		t.Error("arrow key not consumed")
	}
	if !pointsClose(v.Camera(), Point{50, 0}, epsilon) {
		t.Errorf("camera = %v, want {50 0}", v.Camera())
	}
	c.KeyDown(KeyEvent{Key: KeyArrowDown, Shift: true})
	if !pointsClose(v.Camera(), Point{50, 200}, epsilon) {
		t.Errorf("camera = %v, want {50 200}", v.Camera())
	}
	c.KeyDown(KeyEvent{Key: KeyArrowUp})
	c.KeyDown(KeyEvent{Key: KeyArrowLeft})
	if !pointsClose(v.Camera(), Point{0, 150}, epsilon) {
		t.Errorf("camera = %v, want {0 150}", v.Camera())
	}
}

func TestKeyboardZoomShortcuts(t *testing.T) {
	c, v, _ := newTestCoordinator(Callbacks{})
	v.SetDocumentBounds(StackPages([]PageSize{{1000, 2000}}, DefaultPageGap))

	c.KeyDown(KeyEvent{Key: KeyPlus, Ctrl: true})
	if !approxEqual(v.Zoom(), 1.1, epsilon) {
		t.Errorf("zoom = %f, want 1.1", v.Zoom())
	}
	c.KeyDown(KeyEvent{Key: KeyMinus, Ctrl: true})
	if !approxEqual(v.Zoom(), 1.0, epsilon) {
		t.Errorf("zoom = %f, want 1.0", v.Zoom())
	}
	c.KeyDown(KeyEvent{Key: KeyZero, Ctrl: true})
	if !approxEqual(v.Zoom(), 0.27, epsilon) {
		t.Errorf("fit zoom = %f, want 0.27", v.Zoom())
	}
	c.KeyDown(KeyEvent{Key: KeyOne, Ctrl: true})
	if v.Zoom() != 1.0 {
		t.Errorf("zoom = %f, want reset to 1.0", v.Zoom())
	}

	// Without ctrl the zoom keys are not ours.
	if c.KeyDown(KeyEvent{Key: KeyPlus}) {
		t.Error("bare plus consumed")
	}
}

func TestEditableTargetIgnored(t *testing.T) {
	c, v, _ := newTestCoordinator(Callbacks{})
	if c.KeyDown(KeyEvent{Key: KeyArrowRight, Editable: true}) {
		t.Error("shortcut consumed inside editable element")
	}
	if v.Camera() != (Point{}) {
		t.Errorf("camera = %v, want unchanged", v.Camera())
	}
}

func TestDisabledCoordinator(t *testing.T) {
	c, v, _ := newTestCoordinator(Callbacks{})
	c.SetEnabled(false)

	c.PointerDown(PointerEvent{ID: 1, Pos: Point{0, 0}, Button: PointerMiddle})
	c.PointerMove(PointerEvent{ID: 1, Pos: Point{50, 50}})
	if c.Wheel(WheelEvent{DeltaY: 10, Mode: WheelPixels}) {
		t.Error("disabled coordinator consumed a wheel event")
	}
	c.KeyDown(KeyEvent{Key: KeyArrowRight})

	if v.Camera() != (Point{}) || c.State() != GestureIdle {
		t.Errorf("disabled coordinator mutated state: camera %v, state %v", v.Camera(), c.State())
	}

	c.SetEnabled(true)
	c.KeyDown(KeyEvent{Key: KeyArrowRight})
	if !pointsClose(v.Camera(), Point{50, 0}, epsilon) {
		t.Errorf("re-enabled coordinator inert: camera = %v", v.Camera())
	}
}

func TestPointerCancelEndsGesture(t *testing.T) {
	var ends int
	c, _, _ := newTestCoordinator(Callbacks{OnPanEnd: func() { ends++ }})

	c.PointerDown(PointerEvent{ID: 1, Pos: Point{0, 0}, Button: PointerMiddle})
	c.PointerCancel(PointerEvent{ID: 1})
	if c.State() != GestureIdle {
		t.Errorf("state = %v, want idle after cancel", c.State())
	}
	if ends != 1 {
		t.Errorf("OnPanEnd fired %d times, want 1", ends)
	}
}

func TestDraggedSeparatesClickFromPan(t *testing.T) {
	c, _, _ := newTestCoordinator(Callbacks{})

	// Plain click: down and up in place.
	c.PointerDown(PointerEvent{ID: 1, Pos: Point{100, 100}, Button: PointerLeft, OnCanvas: false})
	c.PointerUp(PointerEvent{ID: 1, Pos: Point{100, 100}})
	if c.Dragged() {
		t.Error("stationary click reported as drag")
	}

	// Jitter inside the dead zone is still a click.
	c.PointerDown(PointerEvent{ID: 2, Pos: Point{100, 100}, Button: PointerLeft, OnCanvas: false})
	c.PointerMove(PointerEvent{ID: 2, Pos: Point{102, 101}})
	c.PointerUp(PointerEvent{ID: 2, Pos: Point{102, 101}})
	if c.Dragged() {
		t.Error("sub-dead-zone jitter reported as drag")
	}

	// A real drag-pan must not read as a click after release.
	c.PointerDown(PointerEvent{ID: 3, Pos: Point{100, 100}, Button: PointerLeft, OnCanvas: false})
	c.PointerMove(PointerEvent{ID: 3, Pos: Point{130, 100}})
	c.PointerUp(PointerEvent{ID: 3, Pos: Point{130, 100}})
	if c.State() != GestureIdle {
		t.Fatalf("state = %v, want idle", c.State())
	}
	if !c.Dragged() {
		t.Error("completed drag-pan reported as click")
	}

	// The flag resets on the next press.
	c.PointerDown(PointerEvent{ID: 4, Pos: Point{50, 50}, Button: PointerLeft, OnCanvas: false})
	if c.Dragged() {
		t.Error("drag flag survived into the next gesture")
	}
	c.PointerUp(PointerEvent{ID: 4, Pos: Point{50, 50}})
}

func TestPinchCountsAsDrag(t *testing.T) {
	c, _, _ := newTestCoordinator(Callbacks{})
	c.PointerDown(PointerEvent{ID: 1, Pos: Point{40, 0}, Button: PointerLeft, OnCanvas: false})
	c.PointerDown(PointerEvent{ID: 2, Pos: Point{60, 0}, Button: PointerLeft, OnCanvas: false})
	c.PointerUp(PointerEvent{ID: 1, Pos: Point{40, 0}})
	c.PointerUp(PointerEvent{ID: 2, Pos: Point{60, 0}})
	if !c.Dragged() {
		t.Error("pinch reported as click")
	}
}

func TestUntrackedPointerIgnored(t *testing.T) {
	c, v, _ := newTestCoordinator(Callbacks{})
	c.PointerMove(PointerEvent{ID: 9, Pos: Point{500, 500}})
	c.PointerUp(PointerEvent{ID: 9})
	if v.Camera() != (Point{}) || c.State() != GestureIdle {
		t.Error("untracked pointer affected state")
	}
}
