package wm

import "github.com/google/uuid"

// Handle is the removal capability returned by every registration.
// Remove reverts the registration; the second and later calls are
// no-ops. A zero Handle (returned when registration degraded to a
// no-op) is safe to Remove as well.
type Handle struct {
	id     string
	remove func()
}

// newHandle wraps a removal function under the registration's id. The
// function itself does not need to be idempotent; Handle guarantees it
// runs at most once.
func newHandle(id string, remove func()) *Handle {
	return &Handle{id: id, remove: remove}
}

// noopHandle is returned when a registration was rejected (bad key
// spec, unknown key name). Callers can treat it like any other handle.
func noopHandle() *Handle {
	return &Handle{id: uuid.NewString()}
}

// ID returns the unique registration identifier. The same id tags the
// underlying registry entry, so log lines on both sides correlate.
func (h *Handle) ID() string { return h.id }

// Remove reverts the registration. Idempotent.
func (h *Handle) Remove() {
	if h == nil || h.remove == nil {
		return
	}
	fn := h.remove
	h.remove = nil
	fn()
}
