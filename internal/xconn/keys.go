package xconn

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

// KeyCodes resolves a key name ("t", "F1", "XF86AudioMute") to the
// keycodes it occupies in the current keyboard mapping. An empty slice
// means the name resolved to no keysym or the keysym is not mapped.
func (f *Facade) KeyCodes(name string) []xproto.Keycode {
	return keybind.StrToKeycodes(f.xu, name)
}

// GrabKey reserves a (modifiers, keycode) combination on a window.
// Key presses for the combination are then reported regardless of
// which client has input focus.
func (f *Facade) GrabKey(win xproto.Window, mods uint16, code xproto.Keycode) error {
	err := xproto.GrabKeyChecked(f.xu.Conn(), true, win, mods, code,
		xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
	if err != nil {
		return fmt.Errorf("grab key (win=%d mods=%#x code=%d): %w", win, mods, code, err)
	}
	return nil
}

// UngrabKey releases a key grab established with GrabKey.
func (f *Facade) UngrabKey(win xproto.Window, mods uint16, code xproto.Keycode) error {
	err := xproto.UngrabKeyChecked(f.xu.Conn(), code, win, mods).Check()
	if err != nil {
		return fmt.Errorf("ungrab key (win=%d mods=%#x code=%d): %w", win, mods, code, err)
	}
	return nil
}

// UngrabAllKeys releases every key grab held on a window.
func (f *Facade) UngrabAllKeys(win xproto.Window) error {
	return xproto.UngrabKeyChecked(f.xu.Conn(),
		xproto.GrabAny, win, xproto.ModMaskAny).Check()
}

// GrabKeyboard takes an exclusive grab of the whole keyboard on the
// root window. While held, every key event is delivered to us.
func (f *Facade) GrabKeyboard() error {
	reply, err := xproto.GrabKeyboard(f.xu.Conn(), true, f.root,
		xproto.TimeCurrentTime, xproto.GrabModeAsync, xproto.GrabModeAsync).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return ErrGrabDenied
	}
	return nil
}

// UngrabKeyboard releases a whole keyboard grab. Safe to call when no
// grab is held.
func (f *Facade) UngrabKeyboard() {
	xproto.UngrabKeyboard(f.xu.Conn(), xproto.TimeCurrentTime)
}

// GrabPointer takes an exclusive grab of the pointer on the root.
func (f *Facade) GrabPointer() error {
	reply, err := xproto.GrabPointer(f.xu.Conn(), true, f.root, 0,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.CursorNone, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return ErrGrabDenied
	}
	return nil
}

// UngrabPointer releases a pointer grab. Safe to call when no grab is
// held.
func (f *Facade) UngrabPointer() {
	xproto.UngrabPointer(f.xu.Conn(), xproto.TimeCurrentTime)
}
