package xconn

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// The command wrappers below are thin EWMH client messages. They ask
// the running window manager to act; nothing here manipulates windows
// directly except the restacking calls.

// CloseWindow asks the window manager to close a window.
func (f *Facade) CloseWindow(win xproto.Window) error {
	return ewmh.CloseWindow(f.xu, win)
}

// ChangeWindowDesktop moves a window to the given desktop.
func (f *Facade) ChangeWindowDesktop(win xproto.Window, desktop int) error {
	return ewmh.ClientEvent(f.xu, win, "_NET_WM_DESKTOP", desktop)
}

// ActivateDesktop switches to the given desktop.
func (f *Facade) ActivateDesktop(desktop int) error {
	return ewmh.CurrentDesktopReq(f.xu, desktop)
}

// FocusWindow asks the window manager to give a window input focus.
func (f *Facade) FocusWindow(win xproto.Window) error {
	return ewmh.ActiveWindowReq(f.xu, win)
}

// RaiseWindow moves a window to the top of the stacking order.
func (f *Facade) RaiseWindow(win xproto.Window) error {
	return xproto.ConfigureWindowChecked(f.xu.Conn(), win,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
}

// LowerWindow moves a window to the bottom of the stacking order.
func (f *Facade) LowerWindow(win xproto.Window) error {
	return xproto.ConfigureWindowChecked(f.xu.Conn(), win,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeBelow}).Check()
}

// SetMaximized sets or clears both maximization flags together.
func (f *Facade) SetMaximized(win xproto.Window, maximized bool) error {
	return ewmh.WmStateReqExtra(f.xu, win, stateAction(maximized),
		"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", 2)
}

// SetDecorated toggles the openbox undecorated state.
func (f *Facade) SetDecorated(win xproto.Window, decorated bool) error {
	return ewmh.WmStateReq(f.xu, win, stateAction(!decorated), "_OB_WM_STATE_UNDECORATED")
}

// SetSkipTaskbar toggles the skip-taskbar state.
func (f *Facade) SetSkipTaskbar(win xproto.Window, skip bool) error {
	return ewmh.WmStateReq(f.xu, win, stateAction(skip), "_NET_WM_STATE_SKIP_TASKBAR")
}

// SetSkipPager toggles the skip-pager state.
func (f *Facade) SetSkipPager(win xproto.Window, skip bool) error {
	return ewmh.WmStateReq(f.xu, win, stateAction(skip), "_NET_WM_STATE_SKIP_PAGER")
}

func stateAction(on bool) int {
	if on {
		return ewmh.StateAdd
	}
	return ewmh.StateRemove
}
