package wm

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/google/uuid"
)

// OnManage registers a creation listener that also runs during the
// startup replay of pre-existing windows. Criteria, when non-empty,
// gate the handler through the window matcher.
func (wm *WM) OnManage(c Criteria, fn CreateHandler) *Handle {
	return wm.addCreate(c, fn, false)
}

// OnCreate registers a creation listener that is skipped during the
// startup replay and fires only for windows created while the loop is
// live.
func (wm *WM) OnCreate(c Criteria, fn CreateHandler) *Handle {
	return wm.addCreate(c, fn, true)
}

// addCreate composes the listener the dispatcher sees: matcher check
// innermost, startup skip outermost, so a live event is
// matcher-checked exactly once.
func (wm *WM) addCreate(c Criteria, fn CreateHandler, skipStartup bool) *Handle {
	wrapped := fn
	if !c.Empty() {
		inner := wrapped
		wrapped = func(win xproto.Window) {
			if wm.Matches(win, c) {
				inner(win)
			}
		}
	}
	if skipStartup {
		inner := wrapped
		wrapped = func(win xproto.Window) {
			if wm.startup {
				return
			}
			inner(win)
		}
	}

	e := &createEntry{id: uuid.NewString(), fn: wrapped}
	wm.creates = append(wm.creates, e)

	return newHandle(e.id, func() {
		e.removed = true
		for i, cur := range wm.creates {
			if cur.id == e.id {
				wm.creates = append(wm.creates[:i], wm.creates[i+1:]...)
				return
			}
		}
	})
}

// OnDestroy registers a listener for one window's destruction. The
// listener fires once; afterwards every registry entry keyed by the
// window is purged.
func (wm *WM) OnDestroy(win xproto.Window, fn DestroyHandler) *Handle {
	e := &destroyEntry{id: uuid.NewString(), fn: fn}
	wm.destroys[win] = append(wm.destroys[win], e)

	return newHandle(e.id, func() {
		e.removed = true
		entries := wm.destroys[win]
		for i, cur := range entries {
			if cur.id == e.id {
				entries = append(entries[:i], entries[i+1:]...)
				break
			}
		}
		if len(entries) == 0 {
			delete(wm.destroys, win)
		} else {
			wm.destroys[win] = entries
		}
	})
}

// OnPropertyChange registers a global subscription: fn fires when any
// window's value for one of the named properties changes.
func (wm *WM) OnPropertyChange(props []string, fn PropertyHandler) *Handle {
	return wm.addProperty(AnyWindow, props, fn)
}

// OnWindowPropertyChange registers a subscription scoped to one
// window. Window-scoped subscribers fire before global ones.
func (wm *WM) OnWindowPropertyChange(win xproto.Window, props []string, fn PropertyHandler) *Handle {
	return wm.addProperty(win, props, fn)
}

func (wm *WM) addProperty(win xproto.Window, props []string, fn PropertyHandler) *Handle {
	e := &propEntry{id: uuid.NewString(), fn: fn}

	atoms := make([]xproto.Atom, 0, len(props))
	for _, name := range props {
		atom, err := wm.conn.InternAtom(name)
		if err != nil {
			wm.log.Error("cannot intern property %q: %v", name, err)
			continue
		}
		wins := wm.props[atom]
		if wins == nil {
			wins = make(map[xproto.Window][]*propEntry)
			wm.props[atom] = wins
		}
		wins[win] = append(wins[win], e)
		atoms = append(atoms, atom)
	}
	if len(atoms) == 0 {
		return noopHandle()
	}

	return newHandle(e.id, func() {
		e.removed = true
		for _, atom := range atoms {
			wm.removePropEntry(atom, win, e)
		}
	})
}

func (wm *WM) removePropEntry(atom xproto.Atom, win xproto.Window, e *propEntry) {
	wins := wm.props[atom]
	if wins == nil {
		return
	}
	entries := wins[win]
	for i, cur := range entries {
		if cur.id == e.id {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(wins, win)
	} else {
		wins[win] = entries
	}
	if len(wins) == 0 {
		delete(wm.props, atom)
	}
}

// OnSignal registers a listener for a named signal delivered through
// Emit.
func (wm *WM) OnSignal(name string, fn SignalHandler) *Handle {
	e := &signalEntry{id: uuid.NewString(), fn: fn}
	wm.signals[name] = append(wm.signals[name], e)

	return newHandle(e.id, func() {
		e.removed = true
		entries := wm.signals[name]
		for i, cur := range entries {
			if cur.id == e.id {
				entries = append(entries[:i], entries[i+1:]...)
				break
			}
		}
		if len(entries) == 0 {
			delete(wm.signals, name)
		} else {
			wm.signals[name] = entries
		}
	})
}
