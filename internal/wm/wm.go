package wm

import (
	"strings"
	"sync/atomic"

	"github.com/BurntSushi/xgb/xproto"
)

// AnyWindow is the sentinel for registrations not scoped to a single
// window (global property subscriptions). Window identifier 0 is the X
// None value and never names a real window.
const AnyWindow xproto.Window = 0

// DefaultSignalBuffer is the capacity of the internal wake-up channel.
const DefaultSignalBuffer = 64

// Handler signatures. Handlers run on the dispatch goroutine.
type (
	// KeyHandler runs when a bound key combination is pressed.
	KeyHandler func(win xproto.Window)

	// CreateHandler runs for a newly created (or, during startup
	// replay, already existing) window.
	CreateHandler func(win xproto.Window)

	// DestroyHandler runs when a window it was registered for is
	// destroyed.
	DestroyHandler func(win xproto.Window)

	// PropertyHandler runs when a subscribed window property changes.
	PropertyHandler func(win xproto.Window, atom xproto.Atom)

	// SignalHandler runs for a named signal emitted through Emit.
	SignalHandler func()

	// GrabHandler receives every key event while a whole keyboard
	// grab is held.
	GrabHandler func(pressed bool, mods uint16, code xproto.Keycode)
)

type chord struct {
	mods uint16
	code xproto.Keycode
}

// keyBinding is the registered target of one expanded (mask, code)
// pair. All variants of one logical binding share the same id, so a
// stale removal handle can tell its own entries from a re-registered
// binding's.
type keyBinding struct {
	id string
	fn KeyHandler
}

type createEntry struct {
	id      string
	fn      CreateHandler
	removed bool
}

type destroyEntry struct {
	id      string
	fn      DestroyHandler
	removed bool
}

type propEntry struct {
	id      string
	fn      PropertyHandler
	removed bool
}

type signalEntry struct {
	id      string
	fn      SignalHandler
	removed bool
}

// Config tunes a WM instance.
type Config struct {
	// SignalBuffer is the wake-up channel capacity.
	SignalBuffer int

	// BlockingEmit makes Emit block when the wake-up channel is
	// full instead of dropping the signal.
	BlockingEmit bool
}

// WM owns the registries and the dispatch loop. Construct with New,
// register handlers, then call Run.
type WM struct {
	conn Conn
	log  Logger

	keys     map[xproto.Window]map[chord]*keyBinding
	props    map[xproto.Atom]map[xproto.Window][]*propEntry
	creates  []*createEntry
	destroys map[xproto.Window][]*destroyEntry
	signals  map[string][]*signalEntry

	inits   []func()
	deinits []func()

	grabKeyboardFn GrabHandler
	grabPointerFn  GrabHandler

	focusHistory []xproto.Window

	patterns map[string]*compiledPattern

	spawnQueue  []*spawnPending
	spawnHooked bool

	signalCh     chan string
	blockingEmit bool

	ctl     atomic.Int32 // 0 none, 1 stop, 2 restart
	ctlCh   chan struct{}
	running atomic.Bool
	startup bool
}

// New builds a WM instance around a connection.
func New(conn Conn, log Logger, cfg Config) *WM {
	if cfg.SignalBuffer <= 0 {
		cfg.SignalBuffer = DefaultSignalBuffer
	}
	return &WM{
		conn:         conn,
		log:          log,
		keys:         make(map[xproto.Window]map[chord]*keyBinding),
		props:        make(map[xproto.Atom]map[xproto.Window][]*propEntry),
		destroys:     make(map[xproto.Window][]*destroyEntry),
		signals:      make(map[string][]*signalEntry),
		patterns:     make(map[string]*compiledPattern),
		signalCh:     make(chan string, cfg.SignalBuffer),
		blockingEmit: cfg.BlockingEmit,
		ctlCh:        make(chan struct{}, 1),
	}
}

// Startup reports whether the loop is inside the one-time startup
// replay of pre-existing windows.
func (wm *WM) Startup() bool { return wm.startup }

// Root returns the root window, the scope of global key bindings.
func (wm *WM) Root() xproto.Window { return wm.conn.Root() }

// Emit injects a named signal into the dispatch loop. Callable from
// any goroutine, including OS signal handlers. Multiple names may be
// passed newline-delimited. By default delivery is best-effort: when
// the wake-up channel is full the signal is dropped.
func (wm *WM) Emit(name string) {
	for _, s := range strings.Split(name, "\n") {
		if s == "" {
			continue
		}
		if wm.blockingEmit {
			wm.signalCh <- s
			continue
		}
		select {
		case wm.signalCh <- s:
		default:
			wm.log.Warn("signal channel full, dropping %q", s)
		}
	}
}

// Stop asks the loop to exit with OutcomeStopped. Callable from any
// goroutine.
func (wm *WM) Stop() { wm.requestControl(ctlStop) }

// Restart asks the loop to exit with OutcomeRestarted so the caller
// can rebuild configuration and run again.
func (wm *WM) Restart() { wm.requestControl(ctlRestart) }

const (
	ctlNone int32 = iota
	ctlStop
	ctlRestart
)

func (wm *WM) requestControl(v int32) {
	wm.ctl.CompareAndSwap(ctlNone, v)
	select {
	case wm.ctlCh <- struct{}{}:
	default:
	}
}

// OnInit registers a hook run before the startup replay.
func (wm *WM) OnInit(fn func()) {
	wm.inits = append(wm.inits, fn)
}

// OnDeinit registers a hook run during teardown, after the loop exits.
func (wm *WM) OnDeinit(fn func()) {
	wm.deinits = append(wm.deinits, fn)
}

// AcquireKeyboard takes the exclusive keyboard grab slot. While held,
// fn receives every key press and release and normal key binding
// lookup is bypassed. Returns false without side effects when the
// slot is already held or the server refuses the grab.
func (wm *WM) AcquireKeyboard(fn GrabHandler) bool {
	if wm.grabKeyboardFn != nil {
		return false
	}
	if err := wm.conn.GrabKeyboard(); err != nil {
		wm.log.Warn("keyboard grab failed: %v", err)
		return false
	}
	wm.grabKeyboardFn = fn
	return true
}

// ReleaseKeyboard releases the keyboard grab slot. Safe to call when
// not held.
func (wm *WM) ReleaseKeyboard() {
	wm.grabKeyboardFn = nil
	wm.conn.UngrabKeyboard()
}

// AcquirePointer takes the exclusive pointer grab slot.
func (wm *WM) AcquirePointer(fn GrabHandler) bool {
	if wm.grabPointerFn != nil {
		return false
	}
	if err := wm.conn.GrabPointer(); err != nil {
		wm.log.Warn("pointer grab failed: %v", err)
		return false
	}
	wm.grabPointerFn = fn
	return true
}

// ReleasePointer releases the pointer grab slot. Safe to call when
// not held.
func (wm *WM) ReleasePointer() {
	wm.grabPointerFn = nil
	wm.conn.UngrabPointer()
}

// FocusHistory returns the focus history, most recently focused
// window last. The returned slice is a copy.
func (wm *WM) FocusHistory() []xproto.Window {
	out := make([]xproto.Window, len(wm.focusHistory))
	copy(out, wm.focusHistory)
	return out
}

// touchFocus moves a window to the tail of the focus history,
// deduplicating if it is already present.
func (wm *WM) touchFocus(win xproto.Window) {
	wm.dropFocus(win)
	wm.focusHistory = append(wm.focusHistory, win)
}

func (wm *WM) dropFocus(win xproto.Window) {
	for i, w := range wm.focusHistory {
		if w == win {
			wm.focusHistory = append(wm.focusHistory[:i], wm.focusHistory[i+1:]...)
			return
		}
	}
}
