package wm

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/mvoss/wmhooks/internal/xconn"
)

// Conn is the slice of the connection facade the dispatch core
// consumes. *xconn.Facade satisfies it; tests substitute a fake.
type Conn interface {
	// Connection and event stream.
	Root() xproto.Window
	Events() <-chan xconn.Event
	Sync()

	// Event interest.
	WatchRoot() error
	WatchWindow(win xproto.Window) error

	// Keys and grabs.
	KeyCodes(name string) []xproto.Keycode
	GrabKey(win xproto.Window, mods uint16, code xproto.Keycode) error
	UngrabKey(win xproto.Window, mods uint16, code xproto.Keycode) error
	UngrabAllKeys(win xproto.Window) error
	GrabKeyboard() error
	UngrabKeyboard()
	GrabPointer() error
	UngrabPointer()

	// Atoms and properties.
	InternAtom(name string) (xproto.Atom, error)
	AtomName(atom xproto.Atom) (string, error)
	WindowClass(win xproto.Window) (instance, class string, ok bool)
	WindowRole(win xproto.Window) (string, bool)
	WindowDesktop(win xproto.Window) (int, bool)
	WindowStateGet(win xproto.Window) (xconn.WindowState, error)

	// Client queries.
	Clients() ([]xproto.Window, error)
	StackedClients() ([]xproto.Window, error)
	ActiveWindow() (xproto.Window, bool)
	CurrentDesktop() (int, bool)

	// Commands.
	CloseWindow(win xproto.Window) error
	ChangeWindowDesktop(win xproto.Window, desktop int) error
	ActivateDesktop(desktop int) error
	FocusWindow(win xproto.Window) error
	RaiseWindow(win xproto.Window) error
	LowerWindow(win xproto.Window) error
	SetMaximized(win xproto.Window, maximized bool) error
	SetDecorated(win xproto.Window, decorated bool) error
	SetSkipTaskbar(win xproto.Window, skip bool) error
	SetSkipPager(win xproto.Window, skip bool) error
}

// Logger is the logging surface the core needs. app.Logger satisfies
// it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
