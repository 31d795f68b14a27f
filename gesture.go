package takeoff

import "time"

// Input tuning constants.
const (
	// wheelThrottle caps processed wheel events at ~60Hz; events arriving
	// inside the window are dropped, not queued.
	wheelThrottle = 16 * time.Millisecond

	// Scale factors normalizing line- and page-mode wheel deltas to pixels.
	wheelLineScale = 40.0
	wheelPageScale = 800.0

	// wheelZoomSensitivity converts a pixel wheel delta into a relative
	// zoom change during ctrl/cmd-wheel zoom.
	wheelZoomSensitivity = 0.002

	// KeyPanStep is the world-space distance an arrow key pans the
	// camera; KeyPanStepFast applies while Shift is held.
	KeyPanStep     = 50.0
	KeyPanStepFast = 200.0
)

// dragDeadZone is the screen-space movement in pixels past which a
// pointer gesture counts as a drag rather than a click.
const dragDeadZone = 4.0

// PointerButton identifies which button initiated a pointer event.
type PointerButton uint8

const (
	PointerLeft PointerButton = iota
	PointerMiddle
	PointerRight
)

// WheelDeltaMode is the unit of a wheel event's deltas.
type WheelDeltaMode uint8

const (
	WheelPixels WheelDeltaMode = iota
	WheelLines
	WheelPages
)

// Key identifies the keyboard shortcuts the coordinator understands.
type Key uint8

const (
	KeySpace Key = iota
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyPlus
	KeyMinus
	KeyZero
	KeyOne
)

// PointerEvent is a normalized pointerdown/move/up/cancel event.
// Pos is in viewport (screen) space.
type PointerEvent struct {
	ID     int
	Pos    Point
	Button PointerButton
	// OnCanvas reports whether the event target is the annotation
	// drawing surface, which reserves left-click for its own tools.
	// Everywhere else a left drag pans.
	OnCanvas bool
}

// WheelEvent is a normalized wheel event. Pos is the cursor position in
// viewport space; DeltaX/DeltaY are in the unit given by Mode. Ctrl is
// true when either the control or the command key is held.
type WheelEvent struct {
	Pos    Point
	DeltaX float64
	DeltaY float64
	Mode   WheelDeltaMode
	Ctrl   bool
}

// KeyEvent is a normalized keydown/keyup event. Editable reports whether
// keyboard focus is inside a text input, textarea, select, or
// contenteditable element; shortcuts are ignored there.
type KeyEvent struct {
	Key      Key
	Shift    bool
	Ctrl     bool
	Editable bool
}

// Callbacks notify a consumer about gesture phase transitions, e.g. to
// switch the cursor or defer expensive redraws until a gesture settles.
// Nil callbacks are skipped.
type Callbacks struct {
	OnPanStart  func()
	OnPanEnd    func()
	OnZoomStart func()
	OnZoomEnd   func()
}

// GestureState is the coordinator's current pointer gesture, derived
// from the tracked pointer set.
type GestureState uint8

const (
	GestureIdle GestureState = iota
	GesturePanning
	GesturePinching
)

// Coordinator translates normalized input events into Viewport mutations,
// disambiguating which gesture is active. It owns no timers and spawns no
// goroutines: throttling and debouncing are driven by the event
// timestamps ([Coordinator.Wheel]) and the frame tick
// ([Coordinator.Frame]) of the surrounding event loop.
type Coordinator struct {
	view *Viewport
	cb   Callbacks

	enabled bool

	// Active pointers by ID, screen space.
	pointers map[int]Point

	panning    bool
	panPointer int
	panAnchor  Point
	spaceHeld  bool

	pressPos Point
	dragged  bool

	pinchActive   bool
	pinchBaseDist float64
	pinchBaseZoom float64
	zoomSession   bool // OnZoomStart fired, OnZoomEnd owed

	lastWheel  time.Time
	now        func() time.Time
	wheelZoom  bool // a ctrl-wheel zoom happened; OnZoomEnd owed
	wheelBurst bool // a ctrl-wheel zoom happened since the last Frame
}

// NewCoordinator creates an enabled Coordinator driving the given
// viewport.
func NewCoordinator(view *Viewport, cb Callbacks) *Coordinator {
	return &Coordinator{
		view:     view,
		cb:       cb,
		enabled:  true,
		pointers: make(map[int]Point),
		now:      time.Now,
	}
}

// SetEnabled turns event handling on or off. While disabled every
// handler is a no-op; event sources stay attached.
func (c *Coordinator) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// Dragged reports whether the current or most recently ended pointer
// gesture moved past the drag dead zone, or was a pinch. A release with
// Dragged false is a click; consumers use this to keep a completed
// drag-pan from also acting as a click at the release point. The flag
// resets when the next first pointer goes down.
func (c *Coordinator) Dragged() bool {
	return c.dragged
}

// State returns the current gesture state.
func (c *Coordinator) State() GestureState {
	switch {
	case c.pinchActive:
		return GesturePinching
	case c.panning:
		return GesturePanning
	default:
		return GestureIdle
	}
}

// PointerDown begins tracking a pointer. A middle-button press, a
// left-button press with space held, or a left-button press outside the
// drawing surface starts a pan; a second concurrent pointer converts the
// gesture into a pinch with the current distance and zoom as baseline.
func (c *Coordinator) PointerDown(ev PointerEvent) {
	if !c.enabled {
		return
	}
	c.pointers[ev.ID] = ev.Pos

	if len(c.pointers) == 1 {
		c.pressPos = ev.Pos
		c.dragged = false
	}
	if len(c.pointers) == 2 {
		c.dragged = true
		c.beginPinch()
		return
	}
	if len(c.pointers) != 1 || c.panning {
		return
	}

	startPan := ev.Button == PointerMiddle ||
		(ev.Button == PointerLeft && c.spaceHeld) ||
		(ev.Button == PointerLeft && !ev.OnCanvas)
	if !startPan {
		return
	}
	c.panning = true
	c.panPointer = ev.ID
	c.panAnchor = ev.Pos
	if c.cb.OnPanStart != nil {
		c.cb.OnPanStart()
	}
}

// PointerMove updates a tracked pointer. While pinching it re-derives the
// zoom from the baseline; while panning it pans by the world-space
// pointer delta.
func (c *Coordinator) PointerMove(ev PointerEvent) {
	if !c.enabled {
		return
	}
	if _, tracked := c.pointers[ev.ID]; !tracked {
		return
	}
	c.pointers[ev.ID] = ev.Pos

	if !c.dragged && Distance(ev.Pos, c.pressPos) > dragDeadZone {
		c.dragged = true
	}

	if c.pinchActive && len(c.pointers) == 2 {
		p0, p1 := c.twoPointers()
		dist := Distance(p0, p1)
		if c.pinchBaseDist > 0 {
			scale := dist / c.pinchBaseDist
			c.view.ZoomAbout(Midpoint(p0, p1), c.pinchBaseZoom*scale)
		}
		return
	}

	if c.panning && ev.ID == c.panPointer {
		zoom := c.view.Zoom()
		delta := ev.Pos.Sub(c.panAnchor)
		c.view.Pan(Point{X: delta.X / zoom, Y: delta.Y / zoom})
		c.panAnchor = ev.Pos
	}
}

// PointerUp stops tracking a pointer, ending the pan or pinch it was
// part of. The pinch baseline is cleared as soon as fewer than two
// pointers remain; OnZoomEnd fires when the tracked count reaches zero.
func (c *Coordinator) PointerUp(ev PointerEvent) {
	if !c.enabled {
		return
	}
	if _, tracked := c.pointers[ev.ID]; !tracked {
		return
	}
	delete(c.pointers, ev.ID)

	if c.panning && ev.ID == c.panPointer {
		c.panning = false
		if c.cb.OnPanEnd != nil {
			c.cb.OnPanEnd()
		}
	}
	if c.pinchActive && len(c.pointers) < 2 {
		c.pinchActive = false
		c.pinchBaseDist = 0
	}
	if len(c.pointers) == 0 && c.zoomSession {
		c.zoomSession = false
		if c.cb.OnZoomEnd != nil {
			c.cb.OnZoomEnd()
		}
	}
}

// PointerCancel is handled identically to PointerUp: the browser or OS
// revoked the pointer, so the gesture terminates where it stands.
func (c *Coordinator) PointerCancel(ev PointerEvent) {
	c.PointerUp(ev)
}

// Wheel processes a wheel event: ctrl/cmd-wheel zooms at the cursor,
// plain wheel pans. Events inside the throttle window are dropped. The
// return value reports whether the caller should suppress the native
// scroll; it is true for every event while enabled, dropped or not.
func (c *Coordinator) Wheel(ev WheelEvent) bool {
	if !c.enabled {
		return false
	}
	now := c.now()
	if now.Sub(c.lastWheel) < wheelThrottle {
		return true
	}
	c.lastWheel = now

	dx, dy := ev.DeltaX, ev.DeltaY
	switch ev.Mode {
	case WheelLines:
		dx *= wheelLineScale
		dy *= wheelLineScale
	case WheelPages:
		dx *= wheelPageScale
		dy *= wheelPageScale
	}

	if ev.Ctrl {
		if !c.wheelZoom {
			c.wheelZoom = true
			if c.cb.OnZoomStart != nil {
				c.cb.OnZoomStart()
			}
		}
		c.wheelBurst = true
		zoomDelta := -dy * wheelZoomSensitivity
		c.view.ZoomAbout(ev.Pos, c.view.Zoom()*(1+zoomDelta))
		return true
	}

	zoom := c.view.Zoom()
	c.view.Pan(Point{X: -dx / zoom, Y: -dy / zoom})
	return true
}

// KeyDown handles keyboard shortcuts. It returns true when the key was
// consumed and the caller should suppress the default action. Events
// from editable elements are ignored.
func (c *Coordinator) KeyDown(ev KeyEvent) bool {
	if !c.enabled || ev.Editable {
		return false
	}

	step := KeyPanStep
	if ev.Shift {
		step = KeyPanStepFast
	}

	switch ev.Key {
	case KeySpace:
		c.spaceHeld = true
		return true
	case KeyArrowUp:
		c.view.Pan(Point{Y: -step})
		return true
	case KeyArrowDown:
		c.view.Pan(Point{Y: step})
		return true
	case KeyArrowLeft:
		c.view.Pan(Point{X: -step})
		return true
	case KeyArrowRight:
		c.view.Pan(Point{X: step})
		return true
	}

	if !ev.Ctrl {
		return false
	}
	switch ev.Key {
	case KeyPlus:
		c.view.ZoomIn()
	case KeyMinus:
		c.view.ZoomOut()
	case KeyZero:
		c.view.FitToView()
	case KeyOne:
		c.view.ResetZoom()
	default:
		return false
	}
	return true
}

// KeyUp releases the space modifier.
func (c *Coordinator) KeyUp(ev KeyEvent) {
	if !c.enabled {
		return
	}
	if ev.Key == KeySpace {
		c.spaceHeld = false
	}
}

// Frame runs once per animation frame and settles debounced gesture
// ends: a wheel-zoom burst ends on the first frame with no further
// ctrl-wheel events, firing OnZoomEnd exactly once per burst.
func (c *Coordinator) Frame() {
	if c.wheelZoom && !c.wheelBurst {
		c.wheelZoom = false
		if c.cb.OnZoomEnd != nil {
			c.cb.OnZoomEnd()
		}
	}
	c.wheelBurst = false
}

// beginPinch captures the pinch baseline from the two tracked pointers.
// OnZoomStart fires once per continuous two-pointer session.
func (c *Coordinator) beginPinch() {
	p0, p1 := c.twoPointers()
	c.pinchActive = true
	c.pinchBaseDist = Distance(p0, p1)
	c.pinchBaseZoom = c.view.Zoom()

	// A pan in progress yields to the pinch.
	if c.panning {
		c.panning = false
		if c.cb.OnPanEnd != nil {
			c.cb.OnPanEnd()
		}
	}
	if !c.zoomSession {
		c.zoomSession = true
		if c.cb.OnZoomStart != nil {
			c.cb.OnZoomStart()
		}
	}
}

// twoPointers returns the two tracked pointer positions. Only valid when
// exactly two pointers are tracked; order is unspecified but stable
// enough for distance and midpoint.
func (c *Coordinator) twoPointers() (Point, Point) {
	pts := make([]Point, 0, 2)
	for _, p := range c.pointers {
		pts = append(pts, p)
	}
	return pts[0], pts[1]
}
