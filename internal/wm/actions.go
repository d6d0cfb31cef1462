package wm

import (
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/BurntSushi/xgb/xproto"
)

// spawnWindowWait is how long a spawned command gets to map its
// window before its pending on-create callback is forgotten.
const spawnWindowWait = 100 * time.Second

// SpawnOptions tune SpawnOrRaise.
type SpawnOptions struct {
	// SwitchToDesktop, when >= 0, activates that desktop after the
	// command starts.
	SwitchToDesktop int

	// BringToCurrent moves an already running match to the current
	// desktop instead of following it.
	BringToCurrent bool

	// OnCreate runs when the spawned command maps a matching window.
	// It receives the new window plus the window and desktop that
	// were active before the spawn.
	OnCreate func(win, prevWin xproto.Window, prevDesktop int)
}

// spawnPending is one queued on-create callback from SpawnOrRaise.
type spawnPending struct {
	deadline time.Time
	criteria Criteria
	fn       func(win, prevWin xproto.Window, prevDesktop int)
	prevWin  xproto.Window
	prevDesk int
}

// Spawn starts a shell command detached from the process: its own
// session, stdio from /dev/null, not reaped by us beyond a background
// wait. The shell comes from $SHELL, falling back to /bin/sh.
func (wm *WM) Spawn(cmdline string) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	cmd := exec.Command(shell, "-c", cmdline)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		wm.log.Error("spawn %q: %v", cmdline, err)
		return
	}
	go func() {
		_ = cmd.Wait()
	}()
}

// SpawnOrRaise focuses an existing window matching the criteria, or
// starts the command when none matches.
func (wm *WM) SpawnOrRaise(cmdline string, c Criteria, opts SpawnOptions) {
	if win, ok := wm.FindClient(wm.Clients(), c); ok {
		if opts.BringToCurrent {
			if cur, haveCur := wm.CurrentDesktop(); haveCur {
				wm.ChangeWindowDesktop(win, cur)
			}
		}
		wm.FocusAndRaise(win)
		return
	}

	if opts.OnCreate != nil {
		wm.hookSpawnQueue()
		prevWin, _ := wm.ActiveWindow()
		prevDesk, _ := wm.CurrentDesktop()
		wm.spawnQueue = append(wm.spawnQueue, &spawnPending{
			deadline: time.Now().Add(spawnWindowWait),
			criteria: c,
			fn:       opts.OnCreate,
			prevWin:  prevWin,
			prevDesk: prevDesk,
		})
	}

	wm.Spawn(cmdline)
	if opts.SwitchToDesktop >= 0 {
		wm.ActivateDesktop(opts.SwitchToDesktop)
	}
}

// hookSpawnQueue installs, once, the creation listener that serves
// pending SpawnOrRaise callbacks.
func (wm *WM) hookSpawnQueue() {
	if wm.spawnHooked {
		return
	}
	wm.spawnHooked = true
	wm.OnManage(Criteria{}, wm.serveSpawnQueue)
}

func (wm *WM) serveSpawnQueue(win xproto.Window) {
	if len(wm.spawnQueue) == 0 {
		return
	}
	now := time.Now()
	kept := wm.spawnQueue[:0]
	var fire *spawnPending
	for _, p := range wm.spawnQueue {
		switch {
		case now.After(p.deadline):
			// Expired; the command never mapped a matching window.
		case fire == nil && wm.Matches(win, p.criteria):
			fire = p
		default:
			kept = append(kept, p)
		}
	}
	wm.spawnQueue = kept
	if fire != nil {
		fire.fn(win, fire.prevWin, fire.prevDesk)
	}
}

// FocusNext focuses the next client on the window's desktop, in
// creation order. Pass 0 to start from the active window.
func (wm *WM) FocusNext(win xproto.Window) {
	wm.focusSibling(win, 1)
}

// FocusPrev focuses the previous client on the window's desktop.
func (wm *WM) FocusPrev(win xproto.Window) {
	wm.focusSibling(win, -1)
}

func (wm *WM) focusSibling(win xproto.Window, direction int) {
	if win == 0 {
		active, ok := wm.ActiveWindow()
		if !ok {
			return
		}
		win = active
	}
	desk, ok := wm.WindowDesktop(win)
	if !ok {
		return
	}
	siblings := wm.FindClients(wm.Clients(), Criteria{Desktop: desk, MatchDesktop: true})
	idx := -1
	for i, w := range siblings {
		if w == win {
			idx = i
			break
		}
	}
	if idx < 0 || len(siblings) == 0 {
		return
	}
	next := siblings[(idx+direction+len(siblings))%len(siblings)]
	wm.FocusAndRaise(next)
}

// Close asks the window manager to close the window, defaulting to
// the active one when win is 0.
func (wm *WM) Close(win xproto.Window) {
	if win == 0 {
		active, ok := wm.ActiveWindow()
		if !ok {
			return
		}
		win = active
	}
	wm.CloseWindow(win)
}
