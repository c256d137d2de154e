// Package shared provides common utilities used across the codebase.
//
//nolint:revive // "shared" is an intentional package name for cross-cutting helpers.
package shared

import "strings"

// sqliteConflictMarkers are substrings modernc.org/sqlite uses for lock
// contention errors.
var sqliteConflictMarkers = []string{"SQLITE_BUSY", "SQLITE_LOCKED", "database is locked"}

// IsSQLiteConflictError reports whether err is a transient SQLite locking
// error that is worth retrying.
func IsSQLiteConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, m := range sqliteConflictMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
