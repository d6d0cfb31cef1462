package wm

import "github.com/BurntSushi/xgb/xproto"

// cleanWindow purges every registry entry keyed by a destroyed
// window. Runs exactly once per destroy notification, after the
// destruction listeners, no matter how those listeners fared.
func (wm *WM) cleanWindow(win xproto.Window) {
	if _, bound := wm.keys[win]; bound {
		// The window is gone; releasing its grabs is best-effort.
		if err := wm.conn.UngrabAllKeys(win); err != nil {
			wm.log.Debug("ungrab on destroyed window %d: %v", win, err)
		}
		delete(wm.keys, win)
	}

	delete(wm.destroys, win)

	wm.dropFocus(win)

	for atom, wins := range wm.props {
		if _, ok := wins[win]; ok {
			delete(wins, win)
		}
		if len(wins) == 0 {
			delete(wm.props, atom)
		}
	}
}
