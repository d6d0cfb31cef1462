package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/mvoss/wmhooks/internal/xconn"
)

// Clients returns the managed window list in creation order.
func (wm *WM) Clients() []xproto.Window {
	clients, err := wm.conn.Clients()
	if err != nil {
		wm.log.Warn("client list query failed: %v", err)
		return nil
	}
	return clients
}

// StackedClients returns the managed window list bottom to top.
func (wm *WM) StackedClients() []xproto.Window {
	clients, err := wm.conn.StackedClients()
	if err != nil {
		wm.log.Warn("stacked client list query failed: %v", err)
		return nil
	}
	return clients
}

// ActiveWindow returns the currently focused window.
func (wm *WM) ActiveWindow() (xproto.Window, bool) {
	return wm.conn.ActiveWindow()
}

// CurrentDesktop returns the active desktop index, counting from zero.
func (wm *WM) CurrentDesktop() (int, bool) {
	return wm.conn.CurrentDesktop()
}

// WindowDesktop returns the desktop a window sits on, -1 for sticky
// windows.
func (wm *WM) WindowDesktop(win xproto.Window) (int, bool) {
	return wm.conn.WindowDesktop(win)
}

// WindowClass returns the WM_CLASS instance and class strings.
func (wm *WM) WindowClass(win xproto.Window) (instance, class string, ok bool) {
	return wm.conn.WindowClass(win)
}

// WindowRole returns the WM_WINDOW_ROLE string.
func (wm *WM) WindowRole(win xproto.Window) (string, bool) {
	return wm.conn.WindowRole(win)
}

// AtomName resolves an atom back to the property name it was interned
// from.
func (wm *WM) AtomName(atom xproto.Atom) (string, error) {
	return wm.conn.AtomName(atom)
}

// WindowState reads the maximized/undecorated flags of a window.
func (wm *WM) WindowState(win xproto.Window) (xconn.WindowState, error) {
	return wm.conn.WindowStateGet(win)
}

// FindClients filters a window list through the matcher.
func (wm *WM) FindClients(clients []xproto.Window, c Criteria) []xproto.Window {
	var out []xproto.Window
	for _, win := range clients {
		if wm.Matches(win, c) {
			out = append(out, win)
		}
	}
	return out
}

// FindClient returns the first matching window in a list.
func (wm *WM) FindClient(clients []xproto.Window, c Criteria) (xproto.Window, bool) {
	for _, win := range clients {
		if wm.Matches(win, c) {
			return win, true
		}
	}
	return 0, false
}

// ActivateWindowDesktop switches to the window's desktop. Returns
// (true, true) when a switch happened, (false, true) when the window
// already sits on the current desktop, and ok=false when the window
// has no desktop property.
func (wm *WM) ActivateWindowDesktop(win xproto.Window) (switched, ok bool) {
	desk, ok := wm.conn.WindowDesktop(win)
	if !ok || desk < 0 {
		return false, false
	}
	cur, haveCur := wm.conn.CurrentDesktop()
	if haveCur && cur == desk {
		return false, true
	}
	wm.ActivateDesktop(desk)
	return true, true
}

// ActivateDesktop switches to a desktop. Negative indexes are
// ignored.
func (wm *WM) ActivateDesktop(desktop int) {
	if desktop < 0 {
		return
	}
	if err := wm.conn.ActivateDesktop(desktop); err != nil {
		wm.log.Warn("activate desktop %d: %v", desktop, err)
	}
}

// FocusAndRaise activates the window's desktop, raises the window and
// gives it input focus.
func (wm *WM) FocusAndRaise(win xproto.Window) {
	wm.ActivateWindowDesktop(win)
	if err := wm.conn.RaiseWindow(win); err != nil {
		wm.log.Warn("raise window %d: %v", win, err)
	}
	if err := wm.conn.FocusWindow(win); err != nil {
		wm.log.Warn("focus window %d: %v", win, err)
	}
}

// PlaceAbove floats a window up in the stacking order.
func (wm *WM) PlaceAbove(win xproto.Window) {
	if err := wm.conn.RaiseWindow(win); err != nil {
		wm.log.Warn("raise window %d: %v", win, err)
	}
}

// PlaceBelow floats a window down in the stacking order.
func (wm *WM) PlaceBelow(win xproto.Window) {
	if err := wm.conn.LowerWindow(win); err != nil {
		wm.log.Warn("lower window %d: %v", win, err)
	}
}

// CloseWindow asks the window manager to close a window.
func (wm *WM) CloseWindow(win xproto.Window) {
	if err := wm.conn.CloseWindow(win); err != nil {
		wm.log.Warn("close window %d: %v", win, err)
	}
}

// ChangeWindowDesktop moves a window to a desktop. Negative indexes
// are ignored.
func (wm *WM) ChangeWindowDesktop(win xproto.Window, desktop int) {
	if desktop < 0 {
		return
	}
	if err := wm.conn.ChangeWindowDesktop(win, desktop); err != nil {
		wm.log.Warn("move window %d to desktop %d: %v", win, desktop, err)
	}
}

// SetMaximized sets or clears both maximization flags.
func (wm *WM) SetMaximized(win xproto.Window, maximized bool) {
	if err := wm.conn.SetMaximized(win, maximized); err != nil {
		wm.log.Warn("set maximized on %d: %v", win, err)
	}
}

// SetDecorated toggles window decorations.
func (wm *WM) SetDecorated(win xproto.Window, decorated bool) {
	if err := wm.conn.SetDecorated(win, decorated); err != nil {
		wm.log.Warn("set decorated on %d: %v", win, err)
	}
}

// SetSkipTaskbar toggles the skip-taskbar flag.
func (wm *WM) SetSkipTaskbar(win xproto.Window, skip bool) {
	if err := wm.conn.SetSkipTaskbar(win, skip); err != nil {
		wm.log.Warn("set skip-taskbar on %d: %v", win, err)
	}
}

// SetSkipPager toggles the skip-pager flag.
func (wm *WM) SetSkipPager(win xproto.Window, skip bool) {
	if err := wm.conn.SetSkipPager(win, skip); err != nil {
		wm.log.Warn("set skip-pager on %d: %v", win, err)
	}
}
