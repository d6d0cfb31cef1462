package script

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/mvoss/wmhooks/internal/wm"
)

// Engine runs a Lua config file against one WM instance. Build one
// per run cycle with New, load the config with LoadFile, then Close
// it once the dispatch loop returns.
type Engine struct {
	L      *lua.LState
	wm     *wm.WM
	log    wm.Logger
	closed bool
}

// New creates an Engine with the wm module installed. The io, os,
// debug and package libraries are left out: config files reach the
// outside world through wm.spawn.
func New(w *wm.WM, log wm.Logger) *Engine {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	e := &Engine{L: L, wm: w, log: log}
	e.installModule()
	return e
}

// LoadFile executes a config file.
func (e *Engine) LoadFile(path string) error {
	if e.closed {
		return ErrEngineClosed
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNoConfig, path)
		}
		return err
	}
	return e.protect(func() error { return e.L.DoFile(path) })
}

// LoadString executes inline Lua, mainly as a test seam.
func (e *Engine) LoadString(code string) error {
	if e.closed {
		return ErrEngineClosed
	}
	return e.protect(func() error { return e.L.DoString(code) })
}

// Close releases the interpreter. Idempotent.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}

// protect converts an interpreter panic into an error.
func (e *Engine) protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// call invokes a Lua callback from a dispatch handler. Errors are
// logged, not propagated: one broken handler must not take down the
// loop or its siblings.
func (e *Engine) call(fn *lua.LFunction, args ...lua.LValue) {
	if e.closed {
		return
	}
	e.L.Push(fn)
	for _, a := range args {
		e.L.Push(a)
	}
	if err := e.L.PCall(len(args), 0, nil); err != nil {
		e.log.Error("lua handler: %v", err)
	}
}
