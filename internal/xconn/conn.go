package xconn

import (
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// DefaultEventBuffer is the capacity of the decoded event channel. A
// burst larger than this blocks the pump, not the X server.
const DefaultEventBuffer = 64

// Facade owns the X connection and the event pump.
type Facade struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	events chan Event

	errMu sync.Mutex
	errFn func(error)

	pumpOnce  sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

// Open connects to the display named in $DISPLAY and prepares keysym
// lookup. The event pump is not started until Start is called.
func Open() (*Facade, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	keybind.Initialize(xu)

	return &Facade{
		xu:     xu,
		root:   xu.RootWin(),
		events: make(chan Event, DefaultEventBuffer),
		done:   make(chan struct{}),
	}, nil
}

// Root returns the root window of the default screen.
func (f *Facade) Root() xproto.Window { return f.root }

// Events returns the channel of decoded events. The channel is closed
// when the connection dies or Close is called.
func (f *Facade) Events() <-chan Event { return f.events }

// OnError installs the callback invoked for asynchronous X errors.
// Install it once at startup, before Start.
func (f *Facade) OnError(fn func(error)) {
	f.errMu.Lock()
	f.errFn = fn
	f.errMu.Unlock()
}

func (f *Facade) reportError(err error) {
	f.errMu.Lock()
	fn := f.errFn
	f.errMu.Unlock()
	if fn != nil {
		fn(err)
	}
}

// Start launches the event pump goroutine. Safe to call once.
func (f *Facade) Start() {
	f.pumpOnce.Do(func() {
		go f.pump()
	})
}

// pump reads raw events off the wire, decodes them and forwards them.
// X errors are reported and skipped; a dead connection closes the
// event channel.
func (f *Facade) pump() {
	defer close(f.events)
	for {
		ev, xerr := f.xu.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			f.reportError(ErrConnClosed)
			return
		}
		if xerr != nil {
			f.reportError(xerr)
			continue
		}
		decoded := decodeEvent(ev)
		if decoded == nil {
			continue
		}
		select {
		case f.events <- decoded:
		case <-f.done:
			return
		}
	}
}

// WatchRoot subscribes to substructure notifications on the root, so
// window creation and destruction anywhere on the screen is reported.
func (f *Facade) WatchRoot() error {
	return xproto.ChangeWindowAttributesChecked(f.xu.Conn(), f.root,
		xproto.CwEventMask, []uint32{
			xproto.EventMaskSubstructureNotify,
		}).Check()
}

// WatchWindow subscribes to the per-window events the dispatcher
// routes: structure, property and focus changes.
func (f *Facade) WatchWindow(win xproto.Window) error {
	return xproto.ChangeWindowAttributesChecked(f.xu.Conn(), win,
		xproto.CwEventMask, []uint32{
			xproto.EventMaskStructureNotify |
				xproto.EventMaskPropertyChange |
				xproto.EventMaskFocusChange,
		}).Check()
}

// Sync flushes the request buffer and waits for the server to catch
// up. Used after the startup replay so grab errors surface early.
func (f *Facade) Sync() {
	f.xu.Sync()
}

// Close shuts down the pump and the underlying connection.
func (f *Facade) Close() {
	f.closeOnce.Do(func() {
		close(f.done)
		f.xu.Conn().Close()
	})
}
