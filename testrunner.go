package arbor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoSteps is returned when an input script has nothing to run.
var ErrNoSteps = errors.New("no steps")

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string   `json:"action"`
	X      float64  `json:"x,omitempty"`
	Y      float64  `json:"y,omitempty"`
	FromX  float64  `json:"fromX,omitempty"`
	FromY  float64  `json:"fromY,omitempty"`
	ToX    float64  `json:"toX,omitempty"`
	ToY    float64  `json:"toY,omitempty"`
	Frames int      `json:"frames,omitempty"`
	Key    string   `json:"key,omitempty"`
	Mods   []string `json:"mods,omitempty"`
}

// inputScript is the top-level JSON structure for an input script.
type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

// InputScript sequences injected input across frames for automated
// interaction tests and demos. Attach to a UI via SetInputScript.
type InputScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadInputScript parses a JSON input script.
func LoadInputScript(jsonData []byte) (*InputScript, error) {
	var script inputScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: %w", ErrNoSteps)
	}
	for i, st := range script.Steps {
		if st.Action == "key" {
			if _, ok := keyNames[strings.ToLower(st.Key)]; !ok {
				return nil, fmt.Errorf("parse input script: step %d: unknown key %q", i, st.Key)
			}
		}
		if _, err := parseModifiers(st.Mods); err != nil {
			return nil, fmt.Errorf("parse input script: step %d: %w", i, err)
		}
	}
	return &InputScript{steps: script.Steps}, nil
}

// SetInputScript attaches a script. Its step method is called from Tick
// before injected input is processed.
func (ui *UI) SetInputScript(s *InputScript) {
	ui.runner = s
}

// Done reports whether all steps in the script have been executed.
func (s *InputScript) Done() bool {
	return s.done
}

var keyNames = map[string]Key{
	"left": KeyArrowLeft, "right": KeyArrowRight, "up": KeyArrowUp, "down": KeyArrowDown,
	"enter": KeyEnter, "escape": KeyEscape, "tab": KeyTab,
	"backspace": KeyBackspace, "delete": KeyDelete, "home": KeyHome,
	"end": KeyEnd, "pageup": KeyPageUp, "pagedown": KeyPageDown, "space": KeySpace,
}

func parseModifiers(names []string) (KeyModifiers, error) {
	var mods KeyModifiers
	for _, name := range names {
		switch strings.ToLower(name) {
		case "shift":
			mods |= ModShift
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt":
			mods |= ModAlt
		case "meta", "cmd":
			mods |= ModMeta
		default:
			return 0, fmt.Errorf("unknown modifier %q", name)
		}
	}
	return mods, nil
}

// step advances the script by one frame.
func (s *InputScript) step(ui *UI) {
	if s.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(ui.injectQueue) > 0 {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++
	mods, _ := parseModifiers(st.Mods)

	switch st.Action {
	case "click":
		ui.InjectClickWith(st.X, st.Y, mods)
	case "press":
		ui.InjectEvent(Event{Kind: EventPointerDown, Pos: Vec2{st.X, st.Y}, Modifiers: mods})
	case "move":
		ui.InjectMove(st.X, st.Y)
	case "release":
		ui.InjectRelease(st.X, st.Y)
	case "drag":
		ui.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "key":
		ui.InjectKey(keyNames[strings.ToLower(st.Key)], mods)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 && len(ui.injectQueue) == 0 {
		s.done = true
	}
}
