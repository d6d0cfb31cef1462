package wm

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

func TestBindKeyExpandsIgnorableMasks(t *testing.T) {
	w, conn := newTestWM()

	fired := 0
	w.OnKey("Ctrl+Alt+t", func(xproto.Window) { fired++ })

	if conn.grabCount != 4 {
		t.Fatalf("grab count = %d, want 4", conn.grabCount)
	}

	base := uint16(xproto.ModMaskControl | xproto.ModMask1)
	wantMasks := []uint16{
		base,
		base | xproto.ModMaskLock,
		base | xproto.ModMask2,
		base | xproto.ModMaskLock | xproto.ModMask2,
	}
	for _, mask := range wantMasks {
		if !conn.grabbed[grabbedKey{conn.root, mask, 28}] {
			t.Errorf("mask %#x not grabbed", mask)
		}
		if w.lookupKey(conn.root, mask, 28) == nil {
			t.Errorf("mask %#x not registered", mask)
		}
	}
}

func TestBindKeyUnknownModifier(t *testing.T) {
	conn := newFakeConn()
	log := &recordLogger{}
	w := New(conn, log, Config{})

	h := w.OnKey("Hyper+t", func(xproto.Window) {})

	if conn.grabCount != 0 {
		t.Errorf("grab count = %d, want 0", conn.grabCount)
	}
	if len(log.errors) == 0 {
		t.Error("expected a configuration error to be logged")
	}
	// The degraded handle must still be callable.
	h.Remove()
	h.Remove()
}

func TestBindKeyUnknownKeyName(t *testing.T) {
	conn := newFakeConn()
	log := &recordLogger{}
	w := New(conn, log, Config{})

	w.OnKey("Ctrl+NoSuchKey", func(xproto.Window) {})

	if conn.grabCount != 0 {
		t.Errorf("grab count = %d, want 0", conn.grabCount)
	}
	if len(log.errors) == 0 {
		t.Error("expected a configuration error to be logged")
	}
}

func TestUnbindRevertsAllVariants(t *testing.T) {
	w, conn := newTestWM()

	h := w.OnKey("Ctrl+t", func(xproto.Window) {})
	h.Remove()

	if len(conn.grabbed) != 0 {
		t.Errorf("%d grabs left after Remove", len(conn.grabbed))
	}
	if conn.ungrabCount != 4 {
		t.Errorf("ungrab count = %d, want 4", conn.ungrabCount)
	}
	if w.lookupKey(conn.root, xproto.ModMaskControl, 28) != nil {
		t.Error("binding still registered after Remove")
	}

	// Second removal is a no-op.
	h.Remove()
	if conn.ungrabCount != 4 {
		t.Errorf("ungrab count after double Remove = %d, want 4", conn.ungrabCount)
	}
}

func TestRebindReplacesWithoutSecondGrab(t *testing.T) {
	w, conn := newTestWM()

	firstFired, secondFired := false, false
	old := w.OnKey("Ctrl+t", func(xproto.Window) { firstFired = true })
	w.OnKey("Ctrl+t", func(xproto.Window) { secondFired = true })

	if conn.grabCount != 4 {
		t.Errorf("grab count = %d, want 4 (no second grab for a rebind)", conn.grabCount)
	}

	fn := w.lookupKey(conn.root, xproto.ModMaskControl, 28)
	if fn == nil {
		t.Fatal("no handler bound")
	}
	fn(conn.root)
	if firstFired || !secondFired {
		t.Errorf("fired = (%v, %v), want the replacement handler only", firstFired, secondFired)
	}

	// The stale handle must not tear down the replacement binding.
	old.Remove()
	if w.lookupKey(conn.root, xproto.ModMaskControl, 28) == nil {
		t.Error("stale handle removed the replacement binding")
	}
}

func TestBindKeyHandleIDSharedAcrossVariants(t *testing.T) {
	w, conn := newTestWM()

	h := w.OnKey("Ctrl+t", func(xproto.Window) {})
	if h.ID() == "" {
		t.Fatal("handle without id")
	}

	wins := w.keys[conn.root]
	if len(wins) != 4 {
		t.Fatalf("got %d expanded chords, want 4", len(wins))
	}
	for c, b := range wins {
		if b.id != h.ID() {
			t.Errorf("chord %+v carries id %q, want %q", c, b.id, h.ID())
		}
	}
}

func TestBindKeyScopedToWindow(t *testing.T) {
	w, conn := newTestWM()
	win := xproto.Window(77)

	w.BindKey(win, "Ctrl+d", func(xproto.Window) {})

	if w.lookupKey(win, xproto.ModMaskControl, 40) == nil {
		t.Error("scoped binding not registered under the window")
	}
	if w.lookupKey(conn.root, xproto.ModMaskControl, 40) != nil {
		t.Error("scoped binding leaked to the root")
	}
}
