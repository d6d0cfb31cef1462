package wm

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/google/uuid"
)

// modifierMasks maps key spec modifier names to X modifier bits.
// Aliases map to the same bit.
var modifierMasks = map[string]uint16{
	"Alt":     xproto.ModMask1,
	"Control": xproto.ModMaskControl,
	"Ctrl":    xproto.ModMaskControl,
	"Shift":   xproto.ModMaskShift,
	"Win":     xproto.ModMask4,
	"Mod":     xproto.ModMask4,
}

// ignoredMasks are the lock-like modifier combinations that must not
// keep a binding from firing. Every logical binding is grabbed once
// per entry, with the entry OR'd onto the requested mask.
var ignoredMasks = []uint16{
	0,
	xproto.ModMaskLock,
	xproto.ModMask2,
	xproto.ModMaskLock | xproto.ModMask2,
}

// parseKeySpec splits "Mod1+Mod2+KeyName" into a modifier mask and
// the keycodes the key name occupies. ok is false for an unknown
// modifier or an unresolvable key name; the caller degrades the
// registration to a no-op.
func (wm *WM) parseKeySpec(spec string) (mods uint16, codes []xproto.Keycode, ok bool) {
	parts := strings.Split(spec, "+")
	name := parts[len(parts)-1]
	for _, m := range parts[:len(parts)-1] {
		mask, known := modifierMasks[m]
		if !known {
			wm.log.Error("invalid key spec %q: unknown modifier %q", spec, m)
			return 0, nil, false
		}
		mods |= mask
	}

	codes = wm.conn.KeyCodes(name)
	if len(codes) == 0 {
		wm.log.Error("invalid key spec %q: unknown key name %q", spec, name)
		return 0, nil, false
	}
	return mods, codes, true
}

// OnKey binds a global hotkey on the root window.
func (wm *WM) OnKey(spec string, fn KeyHandler) *Handle {
	return wm.BindKey(wm.conn.Root(), spec, fn)
}

// BindKey binds a hotkey scoped to one window. A malformed spec is
// logged and yields a no-op handle rather than an error: one bad
// binding must not take the session down.
//
// The binding is grabbed once per ignorable modifier combination, all
// under the returned handle; Remove reverts every variant atomically.
// Re-binding an already bound combination replaces the handler without
// issuing (or leaking) a second grab.
func (wm *WM) BindKey(win xproto.Window, spec string, fn KeyHandler) *Handle {
	mods, codes, ok := wm.parseKeySpec(spec)
	if !ok {
		return noopHandle()
	}
	code := codes[0]

	binding := &keyBinding{id: uuid.NewString(), fn: fn}
	chords := make([]chord, 0, len(ignoredMasks))
	for _, ignored := range ignoredMasks {
		c := chord{mods: mods | ignored, code: code}
		wins := wm.keys[win]
		if wins == nil {
			wins = make(map[chord]*keyBinding)
			wm.keys[win] = wins
		}
		if _, bound := wins[c]; !bound {
			if err := wm.conn.GrabKey(win, c.mods, c.code); err != nil {
				wm.log.Warn("grab failed for %q: %v", spec, err)
			}
		}
		wins[c] = binding
		chords = append(chords, c)
	}

	return newHandle(binding.id, func() {
		wm.unbindChords(win, binding, chords)
	})
}

// unbindChords removes a binding's expanded chords by binding id,
// skipping chords that were re-bound to a newer handler since.
func (wm *WM) unbindChords(win xproto.Window, binding *keyBinding, chords []chord) {
	wins := wm.keys[win]
	if wins == nil {
		return
	}
	for _, c := range chords {
		if cur := wins[c]; cur == nil || cur.id != binding.id {
			continue
		}
		delete(wins, c)
		if err := wm.conn.UngrabKey(win, c.mods, c.code); err != nil {
			wm.log.Warn("ungrab failed (win=%d): %v", win, err)
		}
	}
	if len(wins) == 0 {
		delete(wm.keys, win)
	}
}

// lookupKey returns the handler bound to an exact (window, mask,
// code) triple, or nil.
func (wm *WM) lookupKey(win xproto.Window, mods uint16, code xproto.Keycode) KeyHandler {
	b := wm.keys[win][chord{mods: mods, code: code}]
	if b == nil {
		return nil
	}
	return b.fn
}
