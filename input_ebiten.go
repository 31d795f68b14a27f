package takeoff

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// Auto-repeat cadence for held shortcut keys, in ticks at 60 TPS,
// matching DOM keydown repeat: ~500ms delay, then ~50ms intervals.
const (
	keyRepeatDelay    = 30
	keyRepeatInterval = 3
)

// keyBinding maps an ebiten key to a coordinator shortcut key.
type keyBinding struct {
	ebiten ebiten.Key
	key    Key
}

var keyBindings = [...]keyBinding{
	{ebiten.KeySpace, KeySpace},
	{ebiten.KeyArrowUp, KeyArrowUp},
	{ebiten.KeyArrowDown, KeyArrowDown},
	{ebiten.KeyArrowLeft, KeyArrowLeft},
	{ebiten.KeyArrowRight, KeyArrowRight},
	{ebiten.KeyEqual, KeyPlus},
	{ebiten.KeyNumpadAdd, KeyPlus},
	{ebiten.KeyMinus, KeyMinus},
	{ebiten.KeyNumpadSubtract, KeyMinus},
	{ebiten.KeyDigit0, KeyZero},
	{ebiten.KeyDigit1, KeyOne},
}

// InputDriver polls Ebitengine input once per frame and synthesizes the
// normalized event stream for a Coordinator. It is the only place where
// raw device state is read; the coordinator and viewport below it stay
// toolkit-agnostic.
type InputDriver struct {
	coord *Coordinator

	// CanvasHit reports whether a screen point lies on the annotation
	// drawing surface (which reserves left-click for its tools). Nil
	// means there is no drawing surface and left-drag pans everywhere.
	CanvasHit func(Point) bool

	// Editable reports whether keyboard focus is inside a text-editing
	// widget; shortcuts are suppressed there. Nil means never.
	Editable func() bool

	mouseDown   bool
	mouseButton PointerButton

	prevTouchIDs []ebiten.TouchID
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	touchPos     [maxPointers]Point

	keyDown [len(keyBindings)]bool
	keyHeld [len(keyBindings)]int // ticks held, for auto-repeat
}

// NewInputDriver creates a driver feeding the given coordinator.
func NewInputDriver(coord *Coordinator) *InputDriver {
	return &InputDriver{coord: coord}
}

// Update polls the mouse, touch, wheel, and keyboard state and dispatches
// events. Call once per ebiten Update, then call the coordinator's Frame
// at the end of the tick.
func (d *InputDriver) Update() {
	d.pollKeys()
	d.pollMouse()
	d.pollTouches()
	d.pollWheel()
	d.coord.Frame()
}

func (d *InputDriver) pollMouse() {
	mx, my := ebiten.CursorPosition()
	pos := Point{X: float64(mx), Y: float64(my)}

	// If the pointer is already down, keep the button captured at press
	// time for the rest of the interaction.
	var pressed bool
	var button PointerButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		switch {
		case left:
			button = PointerLeft
		case right:
			button = PointerRight
		default:
			button = PointerMiddle
		}
	}

	switch {
	case pressed && !d.mouseDown:
		d.mouseDown = true
		d.mouseButton = button
		d.coord.PointerDown(PointerEvent{
			ID: 0, Pos: pos, Button: button, OnCanvas: d.onCanvas(pos),
		})
	case pressed && d.mouseDown:
		d.coord.PointerMove(PointerEvent{ID: 0, Pos: pos, Button: d.mouseButton})
	case !pressed && d.mouseDown:
		d.mouseDown = false
		d.coord.PointerUp(PointerEvent{ID: 0, Pos: pos, Button: d.mouseButton})
	}
}

func (d *InputDriver) pollTouches() {
	touchIDs := ebiten.AppendTouchIDs(d.prevTouchIDs[:0])
	d.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot, isNew := d.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		pos := Point{X: float64(tx), Y: float64(ty)}
		if isNew {
			d.coord.PointerDown(PointerEvent{
				ID: slot, Pos: pos, Button: PointerLeft, OnCanvas: d.onCanvas(pos),
			})
		} else {
			d.coord.PointerMove(PointerEvent{ID: slot, Pos: pos, Button: PointerLeft})
		}
		d.touchPos[slot] = pos
	}

	// Release slots whose touch has lifted.
	for i := 1; i < maxPointers; i++ {
		if d.touchUsed[i] && !activeSlots[i] {
			d.coord.PointerUp(PointerEvent{ID: i, Pos: d.touchPos[i], Button: PointerLeft})
			d.touchUsed[i] = false
			d.touchMap[i] = 0
			d.touchPos[i] = Point{}
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one; isNew reports an
// allocation. Returns -1 if all slots are taken.
func (d *InputDriver) touchSlot(tid ebiten.TouchID) (slot int, isNew bool) {
	for i := 1; i < maxPointers; i++ {
		if d.touchUsed[i] && d.touchMap[i] == tid {
			return i, false
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !d.touchUsed[i] {
			d.touchUsed[i] = true
			d.touchMap[i] = tid
			d.touchPos[i] = Point{}
			return i, true
		}
	}
	return -1, false
}

func (d *InputDriver) pollWheel() {
	wx, wy := ebiten.Wheel()
	if wx == 0 && wy == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	// Ebiten reports wheel-up as positive; the coordinator follows the
	// DOM convention where scrolling down is positive.
	d.coord.Wheel(WheelEvent{
		Pos:    Point{X: float64(mx), Y: float64(my)},
		DeltaX: -wx,
		DeltaY: -wy,
		Mode:   WheelLines,
		Ctrl:   ctrlOrMetaPressed(),
	})
}

func (d *InputDriver) pollKeys() {
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	ctrl := ctrlOrMetaPressed()
	editable := d.Editable != nil && d.Editable()

	for i, b := range keyBindings {
		down := ebiten.IsKeyPressed(b.ebiten)
		ev := KeyEvent{Key: b.key, Shift: shift, Ctrl: ctrl, Editable: editable}
		switch {
		case down:
			if !d.keyDown[i] {
				d.keyDown[i] = true
				d.keyHeld[i] = 0
			}
			d.keyHeld[i]++
			if keyRepeats(d.keyHeld[i]) {
				d.coord.KeyDown(ev)
			}
		case d.keyDown[i]:
			d.keyDown[i] = false
			d.keyHeld[i] = 0
			d.coord.KeyUp(ev)
		}
	}
}

// keyRepeats reports whether a key held for dur ticks dispatches a
// KeyDown on this tick: once at press, then at the auto-repeat cadence
// after the initial delay, so a held arrow key keeps panning.
func keyRepeats(dur int) bool {
	if dur == 1 {
		return true
	}
	return dur > keyRepeatDelay && (dur-keyRepeatDelay)%keyRepeatInterval == 0
}

func (d *InputDriver) onCanvas(p Point) bool {
	return d.CanvasHit != nil && d.CanvasHit(p)
}

func ctrlOrMetaPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}
