package xconn

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
)

// stickyDesktop is the EWMH value for "window is on all desktops".
const stickyDesktop = 0xffffffff

// WindowState reports the subset of _NET_WM_STATE the core exposes.
type WindowState struct {
	MaximizedVert bool
	MaximizedHorz bool
	Undecorated   bool
}

// InternAtom resolves a property name to its atom, interning it on the
// server if needed. xprop keeps a client-side cache, so repeated
// lookups are free.
func (f *Facade) InternAtom(name string) (xproto.Atom, error) {
	return xprop.Atm(f.xu, name)
}

// AtomName resolves an atom back to its name.
func (f *Facade) AtomName(atom xproto.Atom) (string, error) {
	return xprop.AtomName(f.xu, atom)
}

// WindowClass returns the WM_CLASS (instance, class) pair. ok is false
// when the property is absent.
func (f *Facade) WindowClass(win xproto.Window) (instance, class string, ok bool) {
	wc, err := icccm.WmClassGet(f.xu, win)
	if err != nil || wc == nil {
		return "", "", false
	}
	return wc.Instance, wc.Class, true
}

// WindowRole returns the WM_WINDOW_ROLE string. ok is false when the
// property is absent.
func (f *Facade) WindowRole(win xproto.Window) (string, bool) {
	role, err := xprop.PropValStr(xprop.GetProperty(f.xu, win, "WM_WINDOW_ROLE"))
	if err != nil {
		return "", false
	}
	return role, true
}

// WindowDesktop returns the desktop a window sits on. Sticky windows
// report -1. ok is false when the window has no desktop property yet.
func (f *Facade) WindowDesktop(win xproto.Window) (int, bool) {
	d, err := ewmh.WmDesktopGet(f.xu, win)
	if err != nil {
		return 0, false
	}
	if d == stickyDesktop {
		return -1, true
	}
	return int(d), true
}

// WindowStateGet reads the _NET_WM_STATE flags the core cares about.
func (f *Facade) WindowStateGet(win xproto.Window) (WindowState, error) {
	states, err := ewmh.WmStateGet(f.xu, win)
	if err != nil {
		return WindowState{}, err
	}
	var ws WindowState
	for _, s := range states {
		switch s {
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			ws.MaximizedVert = true
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			ws.MaximizedHorz = true
		case "_OB_WM_STATE_UNDECORATED":
			ws.Undecorated = true
		}
	}
	return ws, nil
}

// Clients returns the managed window list in creation order.
func (f *Facade) Clients() ([]xproto.Window, error) {
	return ewmh.ClientListGet(f.xu)
}

// StackedClients returns the managed window list in stacking order,
// topmost window last.
func (f *Facade) StackedClients() ([]xproto.Window, error) {
	return ewmh.ClientListStackingGet(f.xu)
}

// ActiveWindow returns the window holding input focus.
func (f *Facade) ActiveWindow() (xproto.Window, bool) {
	win, err := ewmh.ActiveWindowGet(f.xu)
	if err != nil || win == 0 {
		return 0, false
	}
	return win, true
}

// CurrentDesktop returns the active desktop index, counting from zero.
func (f *Facade) CurrentDesktop() (int, bool) {
	d, err := ewmh.CurrentDesktopGet(f.xu)
	if err != nil {
		return 0, false
	}
	return int(d), true
}
