package wm

import (
	"testing"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/mvoss/wmhooks/internal/xconn"
)

func TestKeyPressDispatch(t *testing.T) {
	w, conn := newTestWM()

	fired := 0
	w.OnKey("Ctrl+Alt+t", func(xproto.Window) { fired++ })

	base := uint16(xproto.ModMaskControl | xproto.ModMask1)

	// Lock-only variant of the requested mask fires exactly once.
	w.dispatchEvent(xconn.KeyPress{Win: conn.root, Mods: base | xproto.ModMaskLock, Code: 28})
	if fired != 1 {
		t.Fatalf("fired = %d after lock-variant press, want 1", fired)
	}

	// An unrelated mask does not fire.
	w.dispatchEvent(xconn.KeyPress{Win: conn.root, Mods: xproto.ModMaskShift, Code: 28})
	if fired != 1 {
		t.Errorf("fired = %d after unrelated press, want still 1", fired)
	}
}

func TestKeyboardGrabBypassesBindings(t *testing.T) {
	w, conn := newTestWM()

	bindingRan := false
	w.OnKey("Ctrl+t", func(xproto.Window) { bindingRan = true })

	var presses, releases int
	w.AcquireKeyboard(func(pressed bool, _ uint16, _ xproto.Keycode) {
		if pressed {
			presses++
		} else {
			releases++
		}
	})

	w.dispatchEvent(xconn.KeyPress{Win: conn.root, Mods: xproto.ModMaskControl, Code: 28})
	w.dispatchEvent(xconn.KeyRelease{Win: conn.root, Mods: xproto.ModMaskControl, Code: 28})

	if bindingRan {
		t.Error("binding ran while keyboard grab was held")
	}
	if presses != 1 || releases != 1 {
		t.Errorf("grab handler saw (%d presses, %d releases), want (1, 1)", presses, releases)
	}

	// Without a grab, releases are dropped.
	w.ReleaseKeyboard()
	w.dispatchEvent(xconn.KeyRelease{Win: conn.root, Mods: xproto.ModMaskControl, Code: 28})
	if releases != 1 {
		t.Errorf("release forwarded with no grab held")
	}
}

func TestPropertyEchoSuppressed(t *testing.T) {
	w, conn := newTestWM()

	fired := 0
	w.OnPropertyChange([]string{"_NET_WM_STATE"}, func(xproto.Window, xproto.Atom) { fired++ })
	atom := conn.atoms["_NET_WM_STATE"]

	w.dispatchEvent(xconn.PropertyChanged{Win: 5, Atom: atom, NewValue: false})
	if fired != 0 {
		t.Error("subscriber fired for a non-new-value notification")
	}

	w.dispatchEvent(xconn.PropertyChanged{Win: 5, Atom: atom, NewValue: true})
	if fired != 1 {
		t.Errorf("fired = %d for a new-value notification, want 1", fired)
	}
}

func TestDestroyPurgesWindowFootprint(t *testing.T) {
	w, conn := newTestWM()
	win := xproto.Window(60)

	destroyRan := false
	w.BindKey(win, "Ctrl+t", func(xproto.Window) {})
	w.OnDestroy(win, func(xproto.Window) { destroyRan = true })
	w.OnWindowPropertyChange(win, []string{"_NET_WM_DESKTOP"}, func(xproto.Window, xproto.Atom) {})
	w.touchFocus(win)

	w.dispatchEvent(xconn.WindowDestroyed{Win: win})

	if !destroyRan {
		t.Error("destroy listener did not run")
	}
	if _, ok := w.keys[win]; ok {
		t.Error("key bindings survived destroy")
	}
	if _, ok := w.destroys[win]; ok {
		t.Error("destroy listeners survived destroy")
	}
	for atom, wins := range w.props {
		if _, ok := wins[win]; ok {
			t.Errorf("property subscription for atom %d survived destroy", atom)
		}
	}
	for _, fw := range w.FocusHistory() {
		if fw == win {
			t.Error("focus history entry survived destroy")
		}
	}
	if len(conn.ungrabbedAll) == 0 || conn.ungrabbedAll[0] != win {
		t.Error("grabs on the destroyed window were not released")
	}
}

func TestDestroyCleanupRunsDespitePanic(t *testing.T) {
	w, _ := newTestWM()
	win := xproto.Window(61)

	w.OnDestroy(win, func(xproto.Window) { panic("listener fault") })
	w.OnWindowPropertyChange(win, []string{"_NET_WM_STATE"}, func(xproto.Window, xproto.Atom) {})

	w.dispatchEvent(xconn.WindowDestroyed{Win: win})

	for _, wins := range w.props {
		if _, ok := wins[win]; ok {
			t.Error("cleanup skipped after listener panic")
		}
	}
}

func TestPanicDoesNotStopSubsequentDispatch(t *testing.T) {
	w, conn := newTestWM()
	win := xproto.Window(62)

	w.OnPropertyChange([]string{"_NET_WM_STATE"}, func(xproto.Window, xproto.Atom) {
		panic("property handler fault")
	})
	destroyRan := false
	w.OnDestroy(win, func(xproto.Window) { destroyRan = true })

	atom := conn.atoms["_NET_WM_STATE"]
	w.dispatchEvent(xconn.PropertyChanged{Win: win, Atom: atom, NewValue: true})
	w.dispatchEvent(xconn.WindowDestroyed{Win: win})

	if !destroyRan {
		t.Error("event after a panicking handler was not processed")
	}
}

func TestFocusEventUpdatesHistory(t *testing.T) {
	w, _ := newTestWM()
	a, b := xproto.Window(70), xproto.Window(71)

	w.dispatchEvent(xconn.FocusIn{Win: a})
	w.dispatchEvent(xconn.FocusIn{Win: b})
	w.dispatchEvent(xconn.FocusIn{Win: a})

	got := w.FocusHistory()
	if len(got) != 2 || got[0] != b || got[1] != a {
		t.Errorf("history = %v, want [%d %d]", got, b, a)
	}
}

func TestStartupReplay(t *testing.T) {
	w, conn := newTestWM()
	conn.clients = []xproto.Window{80, 81}

	type seen struct {
		win     xproto.Window
		startup bool
	}
	var manageSeen []seen
	var createSeen []seen

	w.OnManage(Criteria{}, func(win xproto.Window) {
		manageSeen = append(manageSeen, seen{win, w.Startup()})
	})
	w.OnCreate(Criteria{}, func(win xproto.Window) {
		createSeen = append(createSeen, seen{win, w.Startup()})
	})

	if err := w.replay(); err != nil {
		t.Fatalf("replay: %v", err)
	}

	if len(manageSeen) != 2 {
		t.Fatalf("manage listener ran %d times during replay, want 2", len(manageSeen))
	}
	for _, s := range manageSeen {
		if !s.startup {
			t.Errorf("window %d: Startup() = false during replay", s.win)
		}
	}
	if len(createSeen) != 0 {
		t.Errorf("startup-skip listener ran %d times during replay, want 0", len(createSeen))
	}
	if !conn.rootSeen {
		t.Error("root input interest not registered")
	}

	// A live creation after replay reaches the startup-skip listener
	// with Startup() false.
	w.dispatchEvent(xconn.WindowCreated{Win: 82})
	if len(createSeen) != 1 || createSeen[0].startup {
		t.Errorf("live create: seen = %v, want one event with startup=false", createSeen)
	}
	if len(manageSeen) != 3 {
		t.Errorf("manage listener ran %d times total, want 3", len(manageSeen))
	}
}

func TestInitHooksRunBeforeReplay(t *testing.T) {
	w, conn := newTestWM()
	conn.clients = []xproto.Window{90}

	var order []string
	w.OnInit(func() { order = append(order, "init") })
	w.OnManage(Criteria{}, func(xproto.Window) { order = append(order, "replay") })

	if err := w.replay(); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(order) != 2 || order[0] != "init" || order[1] != "replay" {
		t.Errorf("order = %v, want [init replay]", order)
	}
}

func TestRunStopOutcome(t *testing.T) {
	w, _ := newTestWM()

	done := make(chan Outcome, 1)
	go func() {
		outcome, err := w.Run()
		if err != nil {
			t.Errorf("Run: %v", err)
		}
		done <- outcome
	}()

	time.Sleep(10 * time.Millisecond)
	w.Stop()

	select {
	case outcome := <-done:
		if outcome != OutcomeStopped {
			t.Errorf("outcome = %v, want stopped", outcome)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestRestartFromHandler(t *testing.T) {
	w, conn := newTestWM()

	w.OnSignal("reload", func() { w.Restart() })

	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := w.Run()
		done <- outcome
	}()

	time.Sleep(10 * time.Millisecond)
	w.Emit("reload")

	select {
	case outcome := <-done:
		if outcome != OutcomeRestarted {
			t.Errorf("outcome = %v, want restarted", outcome)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after restart request")
	}

	// Teardown released the grabs and cleared the registries.
	if len(conn.grabbed) != 0 {
		t.Errorf("%d grabs left after teardown", len(conn.grabbed))
	}
	if len(w.signals) != 0 {
		t.Error("signal registry not cleared by teardown")
	}
}

func TestStopBetweenCyclesHonored(t *testing.T) {
	w, _ := newTestWM()

	w.Restart()
	if outcome, err := w.Run(); outcome != OutcomeRestarted || err != nil {
		t.Fatalf("first cycle = (%v, %v), want restarted", outcome, err)
	}

	w.Stop()

	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := w.Run()
		done <- outcome
	}()

	select {
	case outcome := <-done:
		if outcome != OutcomeStopped {
			t.Errorf("outcome = %v, want stopped", outcome)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stop requested between cycles was lost")
	}
}

func TestRestartConsumedWithItsCycle(t *testing.T) {
	w, _ := newTestWM()

	w.Restart()
	if outcome, _ := w.Run(); outcome != OutcomeRestarted {
		t.Fatalf("first cycle outcome = %v, want restarted", outcome)
	}

	// The honored restart must not leak into the next cycle.
	w.OnSignal("quit", func() { w.Stop() })
	w.Emit("quit")

	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := w.Run()
		done <- outcome
	}()

	select {
	case outcome := <-done:
		if outcome != OutcomeStopped {
			t.Errorf("outcome = %v, want stopped", outcome)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestEmitNewlineDelimited(t *testing.T) {
	w, _ := newTestWM()

	var got []string
	w.OnSignal("a", func() { got = append(got, "a") })
	w.OnSignal("b", func() { got = append(got, "b") })

	w.Emit("a\nb")
	for i := 0; i < 2; i++ {
		select {
		case name := <-w.signalCh:
			w.dispatchSignal(name)
		default:
			t.Fatal("expected two queued signals")
		}
	}

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("got = %v, want [a b]", got)
	}
}

func TestEmitDropsWhenFull(t *testing.T) {
	conn := newFakeConn()
	w := New(conn, discardLogger{}, Config{SignalBuffer: 1})

	// Never blocks, even past capacity.
	w.Emit("one")
	w.Emit("two")

	if len(w.signalCh) != 1 {
		t.Errorf("channel holds %d signals, want 1 (second dropped)", len(w.signalCh))
	}
}

func TestRunRejectsConcurrentCalls(t *testing.T) {
	w, _ := newTestWM()

	go func() {
		_, _ = w.Run()
	}()
	time.Sleep(10 * time.Millisecond)
	defer w.Stop()

	if _, err := w.Run(); err != ErrAlreadyRunning {
		t.Errorf("second Run error = %v, want ErrAlreadyRunning", err)
	}
}

func TestDeinitHooksRunOnTeardown(t *testing.T) {
	w, _ := newTestWM()

	ran := false
	w.OnDeinit(func() { ran = true })

	done := make(chan struct{})
	go func() {
		_, _ = w.Run()
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	w.Stop()
	<-done

	if !ran {
		t.Error("deinit hook did not run")
	}
}
