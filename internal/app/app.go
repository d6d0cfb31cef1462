package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mvoss/wmhooks/internal/config"
	"github.com/mvoss/wmhooks/internal/script"
	"github.com/mvoss/wmhooks/internal/wm"
	"github.com/mvoss/wmhooks/internal/xconn"
)

// restartSignal is the name emitted for SIGUSR1 so Lua configs can
// hook the restart the same way they hook their own signals.
const restartSignal = "restart"

// Ensure the facade satisfies the dispatch core's connection surface.
var _ wm.Conn = (*xconn.Facade)(nil)

// Application runs dispatch cycles until a stop is requested. Each
// cycle builds a fresh Lua engine, executes the config file and runs
// the dispatch loop; a restart request tears the cycle down and
// starts the next one over the same X connection.
type Application struct {
	cfg config.Config
	log *Logger
}

// New assembles an application from loaded configuration.
func New(cfg config.Config, log *Logger) *Application {
	return &Application{cfg: cfg, log: log}
}

// Run connects to the X server and executes dispatch cycles until one
// ends with a stop. SIGINT and SIGTERM stop the daemon, SIGUSR1
// requests a config reload.
func (a *Application) Run() error {
	conn, err := xconn.Open()
	if err != nil {
		return err
	}
	defer conn.Close()

	xlog := a.log.WithComponent("x11")
	conn.OnError(func(err error) {
		xlog.Warn("%v", err)
	})

	w := wm.New(conn, a.log.WithComponent("wm"), wm.Config{
		SignalBuffer: a.cfg.SignalBuffer,
		BlockingEmit: a.cfg.BlockingEmit,
	})
	conn.Start()

	stopSignals := a.watchSignals(w)
	defer stopSignals()

	if a.cfg.WatchRC {
		stopWatch, err := a.watchRC(w)
		if err != nil {
			a.log.Warn("config watch disabled: %v", err)
		} else {
			defer stopWatch()
		}
	}

	for {
		eng := script.New(w, a.log.WithComponent("lua"))
		w.OnSignal(restartSignal, w.Restart)
		if err := eng.LoadFile(a.cfg.RC); err != nil {
			// A broken config still gets a running loop: fix the file
			// and send SIGUSR1.
			a.log.Error("config: %v", err)
		}

		a.log.Info("dispatch loop starting, config %s", a.cfg.RC)
		outcome, err := w.Run()
		eng.Close()
		if err != nil {
			return err
		}
		if outcome != wm.OutcomeRestarted {
			a.log.Info("stopped")
			return nil
		}
		a.log.Info("restarting")
	}
}

// watchSignals converts process signals into loop requests. The
// returned function releases the handler.
func (a *Application) watchSignals(w *wm.WM) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGUSR1:
					a.log.Info("received %v, reloading", sig)
					w.Emit(restartSignal)
				default:
					a.log.Info("received %v, stopping", sig)
					w.Stop()
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

// watchRC restarts the dispatch cycle when the Lua config changes.
func (a *Application) watchRC(w *wm.WM) (func(), error) {
	wlog := a.log.WithComponent("watch")
	watcher, err := config.Watch(a.cfg.RC, func(err error) {
		wlog.Warn("%v", err)
	})
	if err != nil {
		return nil, err
	}

	go func() {
		for range watcher.Changed() {
			wlog.Info("%s changed, reloading", a.cfg.RC)
			w.Restart()
		}
	}()

	return func() { watcher.Close() }, nil
}
