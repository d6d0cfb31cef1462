// Package config loads the daemon's TOML settings file and watches
// the Lua config for changes.
//
// The settings file is optional: a missing file yields defaults, only
// a malformed one is an error. The Lua config itself is loaded by the
// script package; config's watcher just reports when it changes so
// the daemon can restart its dispatch cycle.
package config
