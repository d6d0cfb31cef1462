package wm

import (
	"runtime/debug"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/mvoss/wmhooks/internal/xconn"
)

// Outcome is how the dispatch loop ended.
type Outcome int

const (
	// OutcomeStopped means the loop ended for good.
	OutcomeStopped Outcome = iota

	// OutcomeRestarted means the caller should rebuild configuration
	// and call Run again.
	OutcomeRestarted
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeStopped:
		return "stopped"
	case OutcomeRestarted:
		return "restarted"
	default:
		return "unknown"
	}
}

// Run executes the dispatch loop until Stop or Restart is requested.
//
// Before blocking for the first time it replays creation listeners
// for every window the session already manages, with Startup() true
// for the duration of the replay. Afterwards it multiplexes the X
// event stream with the internal signal channel, alternating fairly;
// all X events queued at the moment of readiness are drained before
// the signal path is serviced again.
//
// Whatever the exit path, every registry is cleared and every grab
// released before Run returns.
func (wm *WM) Run() (Outcome, error) {
	if !wm.running.CompareAndSwap(false, true) {
		return OutcomeStopped, ErrAlreadyRunning
	}
	defer wm.running.Store(false)

	outcome, err := func() (Outcome, error) {
		if err := wm.replay(); err != nil {
			return OutcomeStopped, err
		}
		return wm.loop()
	}()

	// The restart request is consumed with the cycle that honored it.
	// A Stop arriving between cycles lands on ctlNone and survives
	// into the next Run.
	wm.ctl.CompareAndSwap(ctlRestart, ctlNone)
	wm.teardown()
	return outcome, err
}

// replay runs init hooks and the one-time startup pass over windows
// that already exist. There is no second replay: Startup() is false
// from here until process exit.
func (wm *WM) replay() error {
	if err := wm.conn.WatchRoot(); err != nil {
		return err
	}

	for _, fn := range wm.inits {
		wm.runIsolated("init hook", fn)
	}

	wm.startup = true
	clients, err := wm.conn.Clients()
	if err != nil {
		wm.log.Warn("cannot list clients for startup replay: %v", err)
	}
	for _, win := range clients {
		if _, done := wm.pendingControl(); done {
			break
		}
		wm.processCreate(win)
	}
	wm.startup = false

	wm.conn.Sync()
	return nil
}

func (wm *WM) loop() (Outcome, error) {
	for {
		if oc, done := wm.pendingControl(); done {
			return oc, nil
		}

		select {
		case ev, ok := <-wm.conn.Events():
			if !ok {
				return OutcomeStopped, ErrEventStreamClosed
			}
			wm.dispatchEvent(ev)

			// One readiness notification may cover many queued
			// events: drain them all before re-blocking, bailing out
			// as soon as a control request lands.
		drain:
			for {
				if oc, done := wm.pendingControl(); done {
					return oc, nil
				}
				select {
				case ev, ok := <-wm.conn.Events():
					if !ok {
						return OutcomeStopped, ErrEventStreamClosed
					}
					wm.dispatchEvent(ev)
				default:
					break drain
				}
			}

		case name := <-wm.signalCh:
			wm.dispatchSignal(name)

		case <-wm.ctlCh:
			// Re-check at the top of the loop.
		}
	}
}

// pendingControl reports a stop or restart request without consuming
// it; the flag lives until Run returns.
func (wm *WM) pendingControl() (Outcome, bool) {
	switch wm.ctl.Load() {
	case ctlStop:
		return OutcomeStopped, true
	case ctlRestart:
		return OutcomeRestarted, true
	default:
		return 0, false
	}
}

// dispatchEvent routes one decoded event to exactly one handler path.
func (wm *WM) dispatchEvent(ev xconn.Event) {
	switch e := ev.(type) {
	case xconn.KeyPress:
		// An active keyboard grab bypasses binding lookup entirely.
		if fn := wm.grabKeyboardFn; fn != nil {
			wm.runIsolated("keyboard grab", func() { fn(true, e.Mods, e.Code) })
			return
		}
		if fn := wm.lookupKey(e.Win, e.Mods, e.Code); fn != nil {
			wm.runIsolated("key handler", func() { fn(e.Win) })
		}

	case xconn.KeyRelease:
		// Releases are only meaningful to a keyboard grab holder.
		if fn := wm.grabKeyboardFn; fn != nil {
			wm.runIsolated("keyboard grab", func() { fn(false, e.Mods, e.Code) })
		}

	case xconn.WindowCreated:
		wm.processCreate(e.Win)

	case xconn.WindowDestroyed:
		wm.processDestroy(e.Win)

	case xconn.PropertyChanged:
		// Deletions echo our own state writes; only route new values.
		if !e.NewValue {
			return
		}
		wm.processProperty(e.Win, e.Atom)

	case xconn.FocusIn:
		wm.touchFocus(e.Win)
	}
}

// processCreate registers input interest in the window, then runs the
// creation chain in registration order.
func (wm *WM) processCreate(win xproto.Window) {
	if err := wm.conn.WatchWindow(win); err != nil {
		wm.log.Warn("cannot watch window %d: %v", win, err)
	}

	for _, e := range snapshot(wm.creates) {
		if _, done := wm.pendingControl(); done {
			return
		}
		if e.removed {
			continue
		}
		fn := e.fn
		wm.runIsolated("create handler", func() { fn(win) })
	}
}

// processDestroy runs the window's destruction listeners, then purges
// the window's entire registry footprint. The purge happens even when
// no listener exists or a listener panicked.
func (wm *WM) processDestroy(win xproto.Window) {
	defer wm.cleanWindow(win)

	for _, e := range snapshot(wm.destroys[win]) {
		if _, done := wm.pendingControl(); done {
			return
		}
		if e.removed {
			continue
		}
		fn := e.fn
		wm.runIsolated("destroy handler", func() { fn(win) })
	}
}

// processProperty runs window-specific subscribers, then global ones.
func (wm *WM) processProperty(win xproto.Window, atom xproto.Atom) {
	wins := wm.props[atom]
	if wins == nil {
		return
	}
	for _, e := range snapshot(wins[win]) {
		if _, done := wm.pendingControl(); done {
			return
		}
		if e.removed {
			continue
		}
		fn := e.fn
		wm.runIsolated("property handler", func() { fn(win, atom) })
	}
	for _, e := range snapshot(wins[AnyWindow]) {
		if _, done := wm.pendingControl(); done {
			return
		}
		if e.removed {
			continue
		}
		fn := e.fn
		wm.runIsolated("property handler", func() { fn(win, atom) })
	}
}

// dispatchSignal runs the listener chain for one named signal.
func (wm *WM) dispatchSignal(name string) {
	for _, e := range snapshot(wm.signals[name]) {
		if _, done := wm.pendingControl(); done {
			return
		}
		if e.removed {
			continue
		}
		fn := e.fn
		wm.runIsolated("signal handler", func() { fn() })
	}
}

// runIsolated confines a handler fault to the handler. A panic is
// logged with its stack and the loop moves on.
func (wm *WM) runIsolated(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			wm.log.Error("%s panicked: %v\n%s", what, r, debug.Stack())
		}
	}()
	fn()
}

// snapshot copies a listener slice so handlers can mutate the
// registry, including removing themselves, mid-dispatch.
func snapshot[E any](entries []E) []E {
	if len(entries) == 0 {
		return nil
	}
	out := make([]E, len(entries))
	copy(out, entries)
	return out
}

// teardown clears every registry and releases every grab. Runs after
// both stop and restart so the caller always starts from a clean
// instance.
func (wm *WM) teardown() {
	for win := range wm.keys {
		if err := wm.conn.UngrabAllKeys(win); err != nil {
			wm.log.Warn("ungrab all keys (win=%d): %v", win, err)
		}
	}
	if wm.grabKeyboardFn != nil {
		wm.ReleaseKeyboard()
	}
	if wm.grabPointerFn != nil {
		wm.ReleasePointer()
	}

	wm.keys = make(map[xproto.Window]map[chord]*keyBinding)
	wm.props = make(map[xproto.Atom]map[xproto.Window][]*propEntry)
	wm.creates = nil
	wm.destroys = make(map[xproto.Window][]*destroyEntry)
	wm.signals = make(map[string][]*signalEntry)
	wm.focusHistory = nil
	wm.spawnQueue = nil
	wm.spawnHooked = false

	for _, fn := range wm.deinits {
		wm.runIsolated("deinit hook", fn)
	}
	wm.inits = nil
	wm.deinits = nil
}
