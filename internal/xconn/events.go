package xconn

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Event is a decoded X event delivered to the dispatch loop.
// Only the event kinds the dispatcher routes are decoded; everything
// else is dropped at the pump.
type Event interface {
	// Window returns the window the event concerns.
	Window() xproto.Window
}

// KeyPress is a key press delivered for a grabbed key combination.
type KeyPress struct {
	Win  xproto.Window
	Mods uint16
	Code xproto.Keycode
}

// Window returns the window that held the grab.
func (e KeyPress) Window() xproto.Window { return e.Win }

// KeyRelease is a key release. It is only meaningful while a whole
// keyboard grab is active.
type KeyRelease struct {
	Win  xproto.Window
	Mods uint16
	Code xproto.Keycode
}

// Window returns the window that held the grab.
func (e KeyRelease) Window() xproto.Window { return e.Win }

// WindowCreated reports a new window under the root.
type WindowCreated struct {
	Win              xproto.Window
	OverrideRedirect bool
}

// Window returns the created window.
func (e WindowCreated) Window() xproto.Window { return e.Win }

// WindowDestroyed reports a destroyed window.
type WindowDestroyed struct {
	Win xproto.Window
}

// Window returns the destroyed window.
func (e WindowDestroyed) Window() xproto.Window { return e.Win }

// PropertyChanged reports a change to a window property.
// NewValue is false when the property was deleted rather than written;
// the dispatcher only routes new-value notifications.
type PropertyChanged struct {
	Win      xproto.Window
	Atom     xproto.Atom
	NewValue bool
}

// Window returns the window whose property changed.
func (e PropertyChanged) Window() xproto.Window { return e.Win }

// FocusIn reports that a window received input focus.
type FocusIn struct {
	Win xproto.Window
}

// Window returns the newly focused window.
func (e FocusIn) Window() xproto.Window { return e.Win }

// decodeEvent maps a raw xgb event to the core's event union.
// Unhandled kinds return nil.
func decodeEvent(ev xgb.Event) Event {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		return KeyPress{Win: e.Event, Mods: e.State, Code: e.Detail}
	case xproto.KeyReleaseEvent:
		return KeyRelease{Win: e.Event, Mods: e.State, Code: e.Detail}
	case xproto.CreateNotifyEvent:
		return WindowCreated{Win: e.Window, OverrideRedirect: e.OverrideRedirect}
	case xproto.DestroyNotifyEvent:
		return WindowDestroyed{Win: e.Window}
	case xproto.PropertyNotifyEvent:
		return PropertyChanged{
			Win:      e.Window,
			Atom:     e.Atom,
			NewValue: e.State == xproto.PropertyNewValue,
		}
	case xproto.FocusInEvent:
		return FocusIn{Win: e.Event}
	default:
		return nil
	}
}
