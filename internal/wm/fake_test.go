package wm

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/mvoss/wmhooks/internal/xconn"
)

// discardLogger drops everything. Tests that assert on log output use
// recordLogger instead.
type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}

// recordLogger keeps formatted error lines for assertions.
type recordLogger struct {
	discardLogger
	errors []string
}

func (l *recordLogger) Error(msg string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(msg, args...))
}

type grabbedKey struct {
	win  xproto.Window
	mods uint16
	code xproto.Keycode
}

// fakeConn is an in-memory Conn. It records grabs and commands and
// serves canned window attributes.
type fakeConn struct {
	root   xproto.Window
	events chan xconn.Event

	keycodes map[string][]xproto.Keycode

	grabbed      map[grabbedKey]bool
	grabCount    int
	ungrabCount  int
	ungrabbedAll []xproto.Window

	kbHeld   bool
	ptrHeld  bool
	grabErr  error
	watched  []xproto.Window
	rootSeen bool

	atoms    map[string]xproto.Atom
	nextAtom xproto.Atom

	classes  map[xproto.Window][2]string
	roles    map[xproto.Window]string
	desktops map[xproto.Window]int

	clients []xproto.Window
	active  xproto.Window
	curDesk int

	closedWins []xproto.Window
	movedWins  map[xproto.Window]int
	raised     []xproto.Window
	lowered    []xproto.Window
	activated  []int
	focused    []xproto.Window
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		root:      1,
		events:    make(chan xconn.Event, 128),
		keycodes:  map[string][]xproto.Keycode{"t": {28}, "Return": {36}, "d": {40}},
		grabbed:   make(map[grabbedKey]bool),
		atoms:     make(map[string]xproto.Atom),
		nextAtom:  100,
		classes:   make(map[xproto.Window][2]string),
		roles:     make(map[xproto.Window]string),
		desktops:  make(map[xproto.Window]int),
		movedWins: make(map[xproto.Window]int),
	}
}

func (f *fakeConn) Root() xproto.Window         { return f.root }
func (f *fakeConn) Events() <-chan xconn.Event  { return f.events }
func (f *fakeConn) Sync()                       {}
func (f *fakeConn) WatchRoot() error            { f.rootSeen = true; return nil }
func (f *fakeConn) WatchWindow(w xproto.Window) error {
	f.watched = append(f.watched, w)
	return nil
}

func (f *fakeConn) KeyCodes(name string) []xproto.Keycode { return f.keycodes[name] }

func (f *fakeConn) GrabKey(w xproto.Window, mods uint16, code xproto.Keycode) error {
	f.grabbed[grabbedKey{w, mods, code}] = true
	f.grabCount++
	return nil
}

func (f *fakeConn) UngrabKey(w xproto.Window, mods uint16, code xproto.Keycode) error {
	delete(f.grabbed, grabbedKey{w, mods, code})
	f.ungrabCount++
	return nil
}

func (f *fakeConn) UngrabAllKeys(w xproto.Window) error {
	f.ungrabbedAll = append(f.ungrabbedAll, w)
	for k := range f.grabbed {
		if k.win == w {
			delete(f.grabbed, k)
		}
	}
	return nil
}

func (f *fakeConn) GrabKeyboard() error {
	if f.grabErr != nil {
		return f.grabErr
	}
	f.kbHeld = true
	return nil
}
func (f *fakeConn) UngrabKeyboard() { f.kbHeld = false }

func (f *fakeConn) GrabPointer() error {
	if f.grabErr != nil {
		return f.grabErr
	}
	f.ptrHeld = true
	return nil
}
func (f *fakeConn) UngrabPointer() { f.ptrHeld = false }

func (f *fakeConn) InternAtom(name string) (xproto.Atom, error) {
	if a, ok := f.atoms[name]; ok {
		return a, nil
	}
	f.nextAtom++
	f.atoms[name] = f.nextAtom
	return f.nextAtom, nil
}

func (f *fakeConn) AtomName(atom xproto.Atom) (string, error) {
	for name, a := range f.atoms {
		if a == atom {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown atom %d", atom)
}

func (f *fakeConn) WindowClass(w xproto.Window) (string, string, bool) {
	c, ok := f.classes[w]
	return c[0], c[1], ok
}

func (f *fakeConn) WindowRole(w xproto.Window) (string, bool) {
	r, ok := f.roles[w]
	return r, ok
}

func (f *fakeConn) WindowDesktop(w xproto.Window) (int, bool) {
	d, ok := f.desktops[w]
	return d, ok
}

func (f *fakeConn) WindowStateGet(xproto.Window) (xconn.WindowState, error) {
	return xconn.WindowState{}, nil
}

func (f *fakeConn) Clients() ([]xproto.Window, error)        { return f.clients, nil }
func (f *fakeConn) StackedClients() ([]xproto.Window, error) { return f.clients, nil }

func (f *fakeConn) ActiveWindow() (xproto.Window, bool) {
	return f.active, f.active != 0
}

func (f *fakeConn) CurrentDesktop() (int, bool) { return f.curDesk, true }

func (f *fakeConn) CloseWindow(w xproto.Window) error {
	f.closedWins = append(f.closedWins, w)
	return nil
}

func (f *fakeConn) ChangeWindowDesktop(w xproto.Window, d int) error {
	f.movedWins[w] = d
	return nil
}

func (f *fakeConn) ActivateDesktop(d int) error {
	f.activated = append(f.activated, d)
	f.curDesk = d
	return nil
}

func (f *fakeConn) FocusWindow(w xproto.Window) error {
	f.focused = append(f.focused, w)
	f.active = w
	return nil
}

func (f *fakeConn) RaiseWindow(w xproto.Window) error {
	f.raised = append(f.raised, w)
	return nil
}

func (f *fakeConn) LowerWindow(w xproto.Window) error {
	f.lowered = append(f.lowered, w)
	return nil
}

func (f *fakeConn) SetMaximized(xproto.Window, bool) error   { return nil }
func (f *fakeConn) SetDecorated(xproto.Window, bool) error   { return nil }
func (f *fakeConn) SetSkipTaskbar(xproto.Window, bool) error { return nil }
func (f *fakeConn) SetSkipPager(xproto.Window, bool) error   { return nil }

// newTestWM builds a WM over a fresh fake connection.
func newTestWM() (*WM, *fakeConn) {
	conn := newFakeConn()
	return New(conn, discardLogger{}, Config{}), conn
}
