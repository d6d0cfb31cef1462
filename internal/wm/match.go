package wm

import (
	"regexp"

	"github.com/BurntSushi/xgb/xproto"
)

// Criteria selects windows by attribute. Name, Class and Role are
// regular expressions matched from the start of the corresponding
// attribute; Desktop is an exact index compared when MatchDesktop is
// set. All supplied criteria must hold; omitted ones are vacuously
// true.
type Criteria struct {
	Name  string // WM_CLASS instance
	Class string // WM_CLASS class
	Role  string // WM_WINDOW_ROLE

	Desktop      int
	MatchDesktop bool
}

// Empty reports whether no criterion is set.
func (c Criteria) Empty() bool {
	return c.Name == "" && c.Class == "" && c.Role == "" && !c.MatchDesktop
}

// compiledPattern caches one compiled pattern, or the fact that it
// failed to compile. The cache is unbounded: the pattern set comes
// from configuration, not from event volume.
type compiledPattern struct {
	re  *regexp.Regexp
	bad bool
}

// matchString applies a cached pattern with match-from-start
// semantics. Absent data never matches. A pattern that fails to
// compile is logged once and fails every match.
func (wm *WM) matchString(pattern, data string) bool {
	if data == "" {
		return false
	}
	cp := wm.patterns[pattern]
	if cp == nil {
		re, err := regexp.Compile("^(?:" + pattern + ")")
		cp = &compiledPattern{re: re, bad: err != nil}
		if err != nil {
			wm.log.Error("invalid match pattern %q: %v", pattern, err)
		}
		wm.patterns[pattern] = cp
	}
	if cp.bad {
		return false
	}
	return cp.re.MatchString(data)
}

// Matches evaluates criteria against a window's current attributes.
// An absent attribute fails the criterion that needs it.
func (wm *WM) Matches(win xproto.Window, c Criteria) bool {
	if c.Name != "" || c.Class != "" {
		instance, class, ok := wm.conn.WindowClass(win)
		if c.Name != "" && (!ok || !wm.matchString(c.Name, instance)) {
			return false
		}
		if c.Class != "" && (!ok || !wm.matchString(c.Class, class)) {
			return false
		}
	}
	if c.Role != "" {
		role, ok := wm.conn.WindowRole(win)
		if !ok || !wm.matchString(c.Role, role) {
			return false
		}
	}
	if c.MatchDesktop {
		desk, ok := wm.conn.WindowDesktop(win)
		if !ok || desk != c.Desktop {
			return false
		}
	}
	return true
}
