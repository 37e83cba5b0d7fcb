package security

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mattdef/miniclaw/internal/logger"
)

// allowAllWildcard is the allow_from sentinel value that permits every user,
// including ids that would otherwise be rejected by AddUser.
const allowAllWildcard int64 = -1

// Whitelist checks whether a channel user id is permitted to interact with
// the daemon. It is secure by default: an empty whitelist allows no one.
type Whitelist struct {
	allowed map[int64]struct{}
}

// NewWhitelist builds a Whitelist from a set of allowed user ids. Presence
// of allowAllWildcard (-1) switches the whitelist into allow-all mode.
func NewWhitelist(allowedUsers []int64) *Whitelist {
	set := make(map[int64]struct{}, len(allowedUsers))
	hasWildcard := false
	for _, id := range allowedUsers {
		set[id] = struct{}{}
		if id == allowAllWildcard {
			hasWildcard = true
		}
	}

	switch {
	case hasWildcard:
		logger.WarnCF("security", "allow-all mode enabled - all users allowed", nil)
	case len(set) == 0:
		logger.WarnCF("security", "whitelist empty, no users allowed (secure by default)", nil)
	default:
		logger.InfoCF("security", "whitelist initialized", map[string]interface{}{"count": len(set)})
	}

	return &Whitelist{allowed: set}
}

// IsAllowed reports whether userID may interact with the daemon. When the
// wildcard is present, every id is allowed, even non-positive ones.
func (w *Whitelist) IsAllowed(userID int64) bool {
	if _, ok := w.allowed[allowAllWildcard]; ok {
		return true
	}
	if len(w.allowed) == 0 {
		return false
	}
	_, ok := w.allowed[userID]
	return ok
}

// AddUser adds a user id to the whitelist. Non-positive ids are rejected.
func (w *Whitelist) AddUser(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user ID: %d, user IDs must be positive integers", userID)
	}
	w.allowed[userID] = struct{}{}
	return nil
}

// Len returns the number of whitelisted entries (including the wildcard, if set).
func (w *Whitelist) Len() int {
	return len(w.allowed)
}

// IsEmpty reports whether the whitelist has no entries at all.
func (w *Whitelist) IsEmpty() bool {
	return len(w.allowed) == 0
}

// blacklistedCommands cannot be executed via the exec tool, regardless of
// the path or arguments they are invoked with.
var blacklistedCommands = map[string]struct{}{
	"rm":       {},
	"sudo":     {},
	"dd":       {},
	"mkfs":     {},
	"shutdown": {},
	"reboot":   {},
	"passwd":   {},
	"visudo":   {},
}

// IsCommandAllowed reports whether command may be run by the exec tool.
// The blacklist matches against the command's basename, not the full
// invocation string, so that "/usr/bin/rm" is blocked the same as "rm".
func IsCommandAllowed(command string) bool {
	base := filepath.Base(strings.TrimSpace(command))
	_, blocked := blacklistedCommands[strings.ToLower(base)]
	return !blocked
}
