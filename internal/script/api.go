package script

import (
	"github.com/BurntSushi/xgb/xproto"
	lua "github.com/yuin/gopher-lua"

	"github.com/mvoss/wmhooks/internal/wm"
)

// handleTypeName is the metatable key for registration handles.
const handleTypeName = "wmhooks.handle"

// installModule builds the `wm` table and the handle metatable.
func (e *Engine) installModule() {
	L := e.L

	mt := L.NewTypeMetatable(handleTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"remove": func(L *lua.LState) int {
			ud := L.CheckUserData(1)
			if h, ok := ud.Value.(*wm.Handle); ok {
				h.Remove()
			}
			return 0
		},
		"id": func(L *lua.LState) int {
			ud := L.CheckUserData(1)
			if h, ok := ud.Value.(*wm.Handle); ok {
				L.Push(lua.LString(h.ID()))
				return 1
			}
			return 0
		},
	}))

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"on_key":                    e.luaOnKey,
		"bind_key":                  e.luaBindKey,
		"on_create":                 e.luaOnCreate,
		"on_manage":                 e.luaOnManage,
		"on_destroy":                e.luaOnDestroy,
		"on_property_change":        e.luaOnPropertyChange,
		"on_window_property_change": e.luaOnWindowPropertyChange,
		"on_signal":                 e.luaOnSignal,
		"on_init":                   e.luaOnInit,
		"on_deinit":                 e.luaOnDeinit,

		"grab_keyboard":   e.luaGrabKeyboard,
		"ungrab_keyboard": e.luaUngrabKeyboard,
		"grab_pointer":    e.luaGrabPointer,
		"ungrab_pointer":  e.luaUngrabPointer,

		"emit":    e.luaEmit,
		"stop":    e.luaStop,
		"restart": e.luaRestart,
		"startup": e.luaStartup,

		"spawn":                 e.luaSpawn,
		"spawn_or_raise":        e.luaSpawnOrRaise,
		"close":                 e.luaClose,
		"activate_desktop":      e.luaActivateDesktop,
		"change_window_desktop": e.luaChangeWindowDesktop,
		"focus_next":            e.luaFocusNext,
		"focus_prev":            e.luaFocusPrev,
		"place_above":           e.luaPlaceAbove,
		"place_below":           e.luaPlaceBelow,
		"set_maximized":         e.luaSetMaximized,
		"set_decorated":         e.luaSetDecorated,
		"set_skip_taskbar":      e.luaSetSkipTaskbar,
		"set_skip_pager":        e.luaSetSkipPager,

		"matches":         e.luaMatches,
		"clients":         e.luaClients,
		"stacked_clients": e.luaStackedClients,
		"find_client":     e.luaFindClient,
		"active_window":   e.luaActiveWindow,
		"current_desktop": e.luaCurrentDesktop,
		"window_desktop":  e.luaWindowDesktop,
		"window_class":    e.luaWindowClass,
		"window_role":     e.luaWindowRole,
		"window_state":    e.luaWindowState,
		"focus_history":   e.luaFocusHistory,
		"root":            e.luaRoot,
	})
	L.SetGlobal("wm", mod)
}

// pushHandle wraps a registration handle as userdata with remove()
// and id().
func (e *Engine) pushHandle(L *lua.LState, h *wm.Handle) int {
	ud := L.NewUserData()
	ud.Value = h
	L.SetMetatable(ud, L.GetTypeMetatable(handleTypeName))
	L.Push(ud)
	return 1
}

// checkCriteria reads a matcher table {name=, class=, role=, desktop=}.
// Nil means match everything.
func checkCriteria(L *lua.LState, idx int) wm.Criteria {
	var c wm.Criteria
	v := L.Get(idx)
	t, ok := v.(*lua.LTable)
	if !ok {
		return c
	}
	if s, ok := t.RawGetString("name").(lua.LString); ok {
		c.Name = string(s)
	}
	if s, ok := t.RawGetString("class").(lua.LString); ok {
		c.Class = string(s)
	}
	if s, ok := t.RawGetString("role").(lua.LString); ok {
		c.Role = string(s)
	}
	if n, ok := t.RawGetString("desktop").(lua.LNumber); ok {
		c.Desktop = int(n)
		c.MatchDesktop = true
	}
	return c
}

// checkProps reads a property name argument: a string or an array of
// strings.
func checkProps(L *lua.LState, idx int) []string {
	switch v := L.Get(idx).(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LTable:
		var props []string
		v.ForEach(func(_, item lua.LValue) {
			if s, ok := item.(lua.LString); ok {
				props = append(props, string(s))
			}
		})
		return props
	default:
		L.ArgError(idx, "property name or list expected")
		return nil
	}
}

func winArg(L *lua.LState, idx int) xproto.Window {
	return xproto.Window(L.CheckInt(idx))
}

// optWinArg reads an optional window argument, 0 when absent.
func optWinArg(L *lua.LState, idx int) xproto.Window {
	return xproto.Window(L.OptInt(idx, 0))
}

func pushWin(L *lua.LState, win xproto.Window) {
	L.Push(lua.LNumber(win))
}

func (e *Engine) keyCallback(fn *lua.LFunction) wm.KeyHandler {
	return func(win xproto.Window) {
		e.call(fn, lua.LNumber(win))
	}
}

func (e *Engine) winCallback(fn *lua.LFunction) func(xproto.Window) {
	return func(win xproto.Window) {
		e.call(fn, lua.LNumber(win))
	}
}

func (e *Engine) luaOnKey(L *lua.LState) int {
	spec := L.CheckString(1)
	fn := L.CheckFunction(2)
	return e.pushHandle(L, e.wm.OnKey(spec, e.keyCallback(fn)))
}

func (e *Engine) luaBindKey(L *lua.LState) int {
	win := winArg(L, 1)
	spec := L.CheckString(2)
	fn := L.CheckFunction(3)
	return e.pushHandle(L, e.wm.BindKey(win, spec, e.keyCallback(fn)))
}

/// creationArgs supports both call shapes: fn alone, or a matcher
// table followed by fn.
func creationArgs(L *lua.LState) (wm.Criteria, *lua.LFunction) {
	if fn, ok := L.Get(1).(*lua.LFunction); ok {
		return wm.Criteria{}, fn
	}
	return checkCriteria(L, 1), L.CheckFunction(2)
}

func (e *Engine) luaOnCreate(L *lua.LState) int {
	c, fn := creationArgs(L)
	return e.pushHandle(L, e.wm.OnCreate(c, e.winCallback(fn)))
}

func (e *Engine) luaOnManage(L *lua.LState) int {
	c, fn := creationArgs(L)
	return e.pushHandle(L, e.wm.OnManage(c, e.winCallback(fn)))
}

func (e *Engine) luaOnDestroy(L *lua.LState) int {
	win := winArg(L, 1)
	fn := L.CheckFunction(2)
	return e.pushHandle(L, e.wm.OnDestroy(win, e.winCallback(fn)))
}

func (e *Engine) propCallback(fn *lua.LFunction) wm.PropertyHandler {
	return func(win xproto.Window, atom xproto.Atom) {
		name, err := e.wm.AtomName(atom)
		if err != nil {
			name = ""
		}
		e.call(fn, lua.LNumber(win), lua.LString(name))
	}
}

func (e *Engine) luaOnPropertyChange(L *lua.LState) int {
	props := checkProps(L, 1)
	fn := L.CheckFunction(2)
	return e.pushHandle(L, e.wm.OnPropertyChange(props, e.propCallback(fn)))
}

func (e *Engine) luaOnWindowPropertyChange(L *lua.LState) int {
	win := winArg(L, 1)
	props := checkProps(L, 2)
	fn := L.CheckFunction(3)
	return e.pushHandle(L, e.wm.OnWindowPropertyChange(win, props, e.propCallback(fn)))
}

func (e *Engine) luaOnSignal(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	return e.pushHandle(L, e.wm.OnSignal(name, func() { e.call(fn) }))
}

func (e *Engine) luaOnInit(L *lua.LState) int {
	fn := L.CheckFunction(1)
	e.wm.OnInit(func() { e.call(fn) })
	return 0
}

func (e *Engine) luaOnDeinit(L *lua.LState) int {
	fn := L.CheckFunction(1)
	e.wm.OnDeinit(func() { e.call(fn) })
	return 0
}

func (e *Engine) luaGrabKeyboard(L *lua.LState) int {
	fn := L.CheckFunction(1)
	ok := e.wm.AcquireKeyboard(func(pressed bool, mods uint16, code xproto.Keycode) {
		e.call(fn, lua.LBool(pressed), lua.LNumber(mods), lua.LNumber(code))
	})
	L.Push(lua.LBool(ok))
	return 1
}

func (e *Engine) luaUngrabKeyboard(L *lua.LState) int {
	e.wm.ReleaseKeyboard()
	return 0
}

func (e *Engine) luaGrabPointer(L *lua.LState) int {
	fn := L.CheckFunction(1)
	ok := e.wm.AcquirePointer(func(pressed bool, mods uint16, code xproto.Keycode) {
		e.call(fn, lua.LBool(pressed), lua.LNumber(mods), lua.LNumber(code))
	})
	L.Push(lua.LBool(ok))
	return 1
}

func (e *Engine) luaUngrabPointer(L *lua.LState) int {
	e.wm.ReleasePointer()
	return 0
}

func (e *Engine) luaEmit(L *lua.LState) int {
	e.wm.Emit(L.CheckString(1))
	return 0
}

func (e *Engine) luaStop(L *lua.LState) int {
	e.wm.Stop()
	return 0
}

func (e *Engine) luaRestart(L *lua.LState) int {
	e.wm.Restart()
	return 0
}

func (e *Engine) luaStartup(L *lua.LState) int {
	L.Push(lua.LBool(e.wm.Startup()))
	return 1
}

func (e *Engine) luaSpawn(L *lua.LState) int {
	e.wm.Spawn(L.CheckString(1))
	return 0
}

// luaSpawnOrRaise takes (cmdline, matcher[, opts]) where opts may set
// switch_to_desktop, bring_to_current and on_create.
func (e *Engine) luaSpawnOrRaise(L *lua.LState) int {
	cmdline := L.CheckString(1)
	c := checkCriteria(L, 2)

	opts := wm.SpawnOptions{SwitchToDesktop: -1}
	if t, ok := L.Get(3).(*lua.LTable); ok {
		if n, ok := t.RawGetString("switch_to_desktop").(lua.LNumber); ok {
			opts.SwitchToDesktop = int(n)
		}
		if b, ok := t.RawGetString("bring_to_current").(lua.LBool); ok {
			opts.BringToCurrent = bool(b)
		}
		if fn, ok := t.RawGetString("on_create").(*lua.LFunction); ok {
			opts.OnCreate = func(win, prevWin xproto.Window, prevDesktop int) {
				e.call(fn, lua.LNumber(win), lua.LNumber(prevWin), lua.LNumber(prevDesktop))
			}
		}
	}
	e.wm.SpawnOrRaise(cmdline, c, opts)
	return 0
}

func (e *Engine) luaClose(L *lua.LState) int {
	e.wm.Close(optWinArg(L, 1))
	return 0
}

func (e *Engine) luaActivateDesktop(L *lua.LState) int {
	e.wm.ActivateDesktop(L.CheckInt(1))
	return 0
}

func (e *Engine) luaChangeWindowDesktop(L *lua.LState) int {
	e.wm.ChangeWindowDesktop(winArg(L, 1), L.CheckInt(2))
	return 0
}

func (e *Engine) luaFocusNext(L *lua.LState) int {
	e.wm.FocusNext(optWinArg(L, 1))
	return 0
}

func (e *Engine) luaFocusPrev(L *lua.LState) int {
	e.wm.FocusPrev(optWinArg(L, 1))
	return 0
}

func (e *Engine) luaPlaceAbove(L *lua.LState) int {
	e.wm.PlaceAbove(winArg(L, 1))
	return 0
}

func (e *Engine) luaPlaceBelow(L *lua.LState) int {
	e.wm.PlaceBelow(winArg(L, 1))
	return 0
}

func (e *Engine) luaSetMaximized(L *lua.LState) int {
	e.wm.SetMaximized(winArg(L, 1), L.CheckBool(2))
	return 0
}

func (e *Engine) luaSetDecorated(L *lua.LState) int {
	e.wm.SetDecorated(winArg(L, 1), L.CheckBool(2))
	return 0
}

func (e *Engine) luaSetSkipTaskbar(L *lua.LState) int {
	e.wm.SetSkipTaskbar(winArg(L, 1), L.CheckBool(2))
	return 0
}

func (e *Engine) luaSetSkipPager(L *lua.LState) int {
	e.wm.SetSkipPager(winArg(L, 1), L.CheckBool(2))
	return 0
}

func (e *Engine) luaMatches(L *lua.LState) int {
	win := winArg(L, 1)
	c := checkCriteria(L, 2)
	L.Push(lua.LBool(e.wm.Matches(win, c)))
	return 1
}

func pushWinList(L *lua.LState, wins []xproto.Window) int {
	t := L.NewTable()
	for i, win := range wins {
		t.RawSetInt(i+1, lua.LNumber(win))
	}
	L.Push(t)
	return 1
}

func (e *Engine) luaClients(L *lua.LState) int {
	return pushWinList(L, e.wm.Clients())
}

func (e *Engine) luaStackedClients(L *lua.LState) int {
	return pushWinList(L, e.wm.StackedClients())
}

func (e *Engine) luaFindClient(L *lua.LState) int {
	c := checkCriteria(L, 1)
	if win, ok := e.wm.FindClient(e.wm.Clients(), c); ok {
		pushWin(L, win)
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

func (e *Engine) luaActiveWindow(L *lua.LState) int {
	if win, ok := e.wm.ActiveWindow(); ok {
		pushWin(L, win)
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

func (e *Engine) luaCurrentDesktop(L *lua.LState) int {
	if desk, ok := e.wm.CurrentDesktop(); ok {
		L.Push(lua.LNumber(desk))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

func (e *Engine) luaWindowDesktop(L *lua.LState) int {
	if desk, ok := e.wm.WindowDesktop(winArg(L, 1)); ok {
		L.Push(lua.LNumber(desk))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

func (e *Engine) luaWindowClass(L *lua.LState) int {
	instance, class, ok := e.wm.WindowClass(winArg(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(instance))
	L.Push(lua.LString(class))
	return 2
}

func (e *Engine) luaWindowRole(L *lua.LState) int {
	if role, ok := e.wm.WindowRole(winArg(L, 1)); ok {
		L.Push(lua.LString(role))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}

func (e *Engine) luaWindowState(L *lua.LState) int {
	state, err := e.wm.WindowState(winArg(L, 1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	t := L.NewTable()
	t.RawSetString("maximized_vert", lua.LBool(state.MaximizedVert))
	t.RawSetString("maximized_horz", lua.LBool(state.MaximizedHorz))
	t.RawSetString("undecorated", lua.LBool(state.Undecorated))
	L.Push(t)
	return 1
}

func (e *Engine) luaFocusHistory(L *lua.LState) int {
	return pushWinList(L, e.wm.FocusHistory())
}

func (e *Engine) luaRoot(L *lua.LState) int {
	pushWin(L, e.wm.Root())
	return 1
}
