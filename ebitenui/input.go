package ebitenui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/arbor"
)

var keyMap = map[ebiten.Key]arbor.Key{
	ebiten.KeyArrowLeft:   arbor.KeyArrowLeft,
	ebiten.KeyArrowRight:  arbor.KeyArrowRight,
	ebiten.KeyArrowUp:     arbor.KeyArrowUp,
	ebiten.KeyArrowDown:   arbor.KeyArrowDown,
	ebiten.KeyEnter:       arbor.KeyEnter,
	ebiten.KeyNumpadEnter: arbor.KeyEnter,
	ebiten.KeyEscape:      arbor.KeyEscape,
	ebiten.KeyTab:         arbor.KeyTab,
	ebiten.KeyBackspace:   arbor.KeyBackspace,
	ebiten.KeyDelete:      arbor.KeyDelete,
	ebiten.KeyHome:        arbor.KeyHome,
	ebiten.KeyEnd:         arbor.KeyEnd,
	ebiten.KeyPageUp:      arbor.KeyPageUp,
	ebiten.KeyPageDown:    arbor.KeyPageDown,
	ebiten.KeySpace:       arbor.KeySpace,
}

// mapKey converts an Ebitengine key. Keys the toolkit has no name for map
// to KeyUnknown.
func mapKey(k ebiten.Key) arbor.Key {
	if v, ok := keyMap[k]; ok {
		return v
	}
	return arbor.KeyUnknown
}

var mouseButtons = [...]struct {
	eb ebiten.MouseButton
	ab arbor.MouseButton
}{
	{ebiten.MouseButtonLeft, arbor.MouseButtonLeft},
	{ebiten.MouseButtonRight, arbor.MouseButtonRight},
	{ebiten.MouseButtonMiddle, arbor.MouseButtonMiddle},
}

// frameInput is one frame's raw device state.
type frameInput struct {
	cursor   arbor.Vec2
	pressed  [3]bool
	released [3]bool
	wheel    float64
	keysDown []ebiten.Key
	keysUp   []ebiten.Key
	runes    []rune
	mods     arbor.KeyModifiers
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() arbor.KeyModifiers {
	var mods arbor.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= arbor.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= arbor.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= arbor.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= arbor.ModMeta
	}
	return mods
}

// pollInput reads the device state for this frame. buf is reused.
func pollInput(buf *frameInput) {
	mx, my := ebiten.CursorPosition()
	buf.cursor = arbor.Vec2{X: float64(mx), Y: float64(my)}
	for i, b := range mouseButtons {
		buf.pressed[i] = inpututil.IsMouseButtonJustPressed(b.eb)
		buf.released[i] = inpututil.IsMouseButtonJustReleased(b.eb)
	}
	_, buf.wheel = ebiten.Wheel()
	buf.keysDown = inpututil.AppendJustPressedKeys(buf.keysDown[:0])
	buf.keysUp = inpututil.AppendJustReleasedKeys(buf.keysUp[:0])
	buf.runes = ebiten.AppendInputChars(buf.runes[:0])
	buf.mods = readModifiers()
}

// translate turns one frame of device state into arbor events: a move when
// the cursor changed, then button, wheel, key and text events.
func translate(in *frameInput, lastCursor arbor.Vec2, out []arbor.Event) []arbor.Event {
	if in.cursor != lastCursor {
		out = append(out, arbor.Event{Kind: arbor.EventPointerMove, Pos: in.cursor, Modifiers: in.mods})
	}
	for i, b := range mouseButtons {
		if in.pressed[i] {
			out = append(out, arbor.Event{Kind: arbor.EventPointerDown, Pos: in.cursor, Button: b.ab, Modifiers: in.mods})
		}
	}
	for i, b := range mouseButtons {
		if in.released[i] {
			out = append(out, arbor.Event{Kind: arbor.EventPointerUp, Pos: in.cursor, Button: b.ab, Modifiers: in.mods})
		}
	}
	if in.wheel != 0 {
		out = append(out, arbor.Event{Kind: arbor.EventWheel, Pos: in.cursor, Wheel: in.wheel, Modifiers: in.mods})
	}
	for _, k := range in.keysDown {
		if key := mapKey(k); key != arbor.KeyUnknown {
			out = append(out, arbor.Event{Kind: arbor.EventKeyDown, Key: key, Modifiers: in.mods})
		}
	}
	for _, k := range in.keysUp {
		if key := mapKey(k); key != arbor.KeyUnknown {
			out = append(out, arbor.Event{Kind: arbor.EventKeyUp, Key: key, Modifiers: in.mods})
		}
	}
	for _, r := range in.runes {
		out = append(out, arbor.Event{Kind: arbor.EventText, Rune: r, Modifiers: in.mods})
	}
	return out
}
