package script

import "errors"

// Sentinel errors for the scripting layer.
var (
	// ErrEngineClosed is returned when a closed Engine is used.
	ErrEngineClosed = errors.New("script: engine closed")

	// ErrNoConfig is returned when the config file does not exist.
	ErrNoConfig = errors.New("script: config file not found")
)
