package takeoff

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single recorded input event.
type scriptStep struct {
	Action   string  `json:"action"`
	ID       int     `json:"id,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Button   string  `json:"button,omitempty"`
	Key      string  `json:"key,omitempty"`
	DeltaX   float64 `json:"deltaX,omitempty"`
	DeltaY   float64 `json:"deltaY,omitempty"`
	Mode     string  `json:"mode,omitempty"`
	Ctrl     bool    `json:"ctrl,omitempty"`
	Shift    bool    `json:"shift,omitempty"`
	OnCanvas bool    `json:"onCanvas,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure of a recorded gesture script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// Script replays a recorded sequence of input events against a
// Coordinator, for regression-testing gesture sequences end to end
// without a real input device.
type Script struct {
	steps []scriptStep
}

// LoadScript parses a JSON gesture script.
func LoadScript(data []byte) (*Script, error) {
	var sc script
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse gesture script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse gesture script: no steps")
	}
	return &Script{steps: sc.Steps}, nil
}

// Run feeds every step to the coordinator in order. Unknown actions,
// buttons, or keys fail the replay rather than being skipped, so a typo
// in a script cannot silently weaken a regression test.
func (s *Script) Run(c *Coordinator) error {
	for i, step := range s.steps {
		if err := s.apply(c, step); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (s *Script) apply(c *Coordinator, step scriptStep) error {
	switch step.Action {
	case "pointerdown", "pointermove", "pointerup", "pointercancel":
		button, err := parseButton(step.Button)
		if err != nil {
			return err
		}
		ev := PointerEvent{
			ID:       step.ID,
			Pos:      Point{X: step.X, Y: step.Y},
			Button:   button,
			OnCanvas: step.OnCanvas,
		}
		switch step.Action {
		case "pointerdown":
			c.PointerDown(ev)
		case "pointermove":
			c.PointerMove(ev)
		case "pointerup":
			c.PointerUp(ev)
		case "pointercancel":
			c.PointerCancel(ev)
		}
		return nil

	case "wheel":
		mode, err := parseWheelMode(step.Mode)
		if err != nil {
			return err
		}
		c.Wheel(WheelEvent{
			Pos:    Point{X: step.X, Y: step.Y},
			DeltaX: step.DeltaX,
			DeltaY: step.DeltaY,
			Mode:   mode,
			Ctrl:   step.Ctrl,
		})
		return nil

	case "keydown", "keyup":
		key, err := parseKey(step.Key)
		if err != nil {
			return err
		}
		ev := KeyEvent{Key: key, Shift: step.Shift, Ctrl: step.Ctrl}
		if step.Action == "keydown" {
			c.KeyDown(ev)
		} else {
			c.KeyUp(ev)
		}
		return nil

	case "frame":
		n := step.Frames
		if n < 1 {
			n = 1
		}
		for ; n > 0; n-- {
			c.Frame()
		}
		return nil
	}
	return fmt.Errorf("unknown action %q", step.Action)
}

func parseButton(name string) (PointerButton, error) {
	switch name {
	case "", "left":
		return PointerLeft, nil
	case "middle":
		return PointerMiddle, nil
	case "right":
		return PointerRight, nil
	}
	return 0, fmt.Errorf("unknown button %q", name)
}

func parseWheelMode(name string) (WheelDeltaMode, error) {
	switch name {
	case "", "pixels":
		return WheelPixels, nil
	case "lines":
		return WheelLines, nil
	case "pages":
		return WheelPages, nil
	}
	return 0, fmt.Errorf("unknown wheel mode %q", name)
}

func parseKey(name string) (Key, error) {
	switch name {
	case "space":
		return KeySpace, nil
	case "up":
		return KeyArrowUp, nil
	case "down":
		return KeyArrowDown, nil
	case "left":
		return KeyArrowLeft, nil
	case "right":
		return KeyArrowRight, nil
	case "plus":
		return KeyPlus, nil
	case "minus":
		return KeyMinus, nil
	case "zero":
		return KeyZero, nil
	case "one":
		return KeyOne, nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}
