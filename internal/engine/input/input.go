// Package input translates SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType discriminates translated events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	// RelX/RelY carry motion deltas, which stay meaningful in
	// relative mouse mode where absolute coordinates freeze.
	RelX   int
	RelY   int
	WheelY int
	Button uint8
}

// Input drains the SDL event queue once per frame and tracks which
// keys and mouse buttons are currently held.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool
	mouse  [8]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool, 16),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			i.onKey(e)

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				RelX:   int(e.XRel),
				RelY:   int(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			i.onMouseButton(e)

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{Type: EventMouseWheel, WheelY: int(e.Y)})
		}
	}

	return false
}

// onKey updates held state and emits a key event. Key repeats refresh
// the held state without emitting duplicate EventKeyDown entries.
func (i *Input) onKey(e *sdl.KeyboardEvent) {
	switch e.Type {
	case sdl.KEYDOWN:
		i.held[e.Keysym.Scancode] = true
		if e.Repeat == 0 {
			i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
		}
	case sdl.KEYUP:
		delete(i.held, e.Keysym.Scancode)
		i.events = append(i.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
	}
}

func (i *Input) onMouseButton(e *sdl.MouseButtonEvent) {
	down := e.Type == sdl.MOUSEBUTTONDOWN
	if int(e.Button) < len(i.mouse) {
		i.mouse[e.Button] = down
	}
	t := EventMouseUp
	if down {
		t = EventMouseDown
	}
	i.events = append(i.events, Event{Type: t, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button})
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyHeld reports whether a key is currently down. Held state persists
// across frames, which is what continuous panning needs.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// IsMouseHeld reports whether a mouse button is currently down.
func (i *Input) IsMouseHeld(button uint8) bool {
	return int(button) < len(i.mouse) && i.mouse[button]
}
