// Package script embeds a Lua interpreter and exposes the dispatch
// core to user configuration files.
//
// A config file is plain Lua executed against a `wm` module table.
// Registration functions (wm.on_key, wm.on_manage, ...) return handle
// objects whose remove() method deregisters the hook. Handlers are
// plain Lua functions; they run on the dispatch goroutine and a
// runtime error in one is logged without disturbing the loop.
//
// The interpreter state is not goroutine-safe. An Engine belongs to
// the goroutine that runs the dispatch loop: all callbacks fire there,
// and Close must be called from there after the loop exits. A restart
// discards the Engine entirely and a fresh one re-executes the config,
// so Lua state never leaks across run cycles.
package script
