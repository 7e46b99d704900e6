// Package input turns SDL2 events into demo controls.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is a toggle bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleShadows
	ActionToggleWireframe
	ActionToggleArcs
	ActionTogglePause
	ActionDumpStats
)

// DefaultBindings maps keys to actions.
var DefaultBindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE: ActionQuit,
	sdl.SCANCODE_F1:     ActionToggleShadows,
	sdl.SCANCODE_F2:     ActionToggleWireframe,
	sdl.SCANCODE_F3:     ActionToggleArcs,
	sdl.SCANCODE_SPACE:  ActionTogglePause,
	sdl.SCANCODE_F12:    ActionDumpStats,
}

// State is what happened since the previous Update.
type State struct {
	Quit    bool
	Resized bool
	Width   int
	Height  int

	// Mouse drag while the left button is held, in pixels.
	DragX, DragY float32
	// Wheel steps, positive away from the user.
	Zoom float32

	Actions []Action
}

// Input handles all input processing.
type Input struct {
	bindings map[sdl.Scancode]Action
	dragging bool
	state    State
}

// New creates an input handler. nil bindings use DefaultBindings.
func New(bindings map[sdl.Scancode]Action) *Input {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &Input{bindings: bindings}
}

// Update polls SDL events and returns the accumulated state.
func (i *Input) Update() State {
	i.state = State{Actions: i.state.Actions[:0]}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.handle(event)
	}
	return i.state
}

func (i *Input) handle(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.state.Quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			i.state.Resized = true
			i.state.Width = int(e.Data1)
			i.state.Height = int(e.Data2)
		}

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return
		}
		a := i.bindings[e.Keysym.Scancode]
		switch a {
		case ActionNone:
		case ActionQuit:
			i.state.Quit = true
		default:
			i.state.Actions = append(i.state.Actions, a)
		}

	case *sdl.MouseButtonEvent:
		if e.Button == sdl.BUTTON_LEFT {
			i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
		}

	case *sdl.MouseMotionEvent:
		if i.dragging {
			i.state.DragX += float32(e.XRel)
			i.state.DragY += float32(e.YRel)
		}

	case *sdl.MouseWheelEvent:
		i.state.Zoom += float32(e.Y)
	}
}
