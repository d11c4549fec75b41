// Package status defines the account status values for admin users. A
// disabled account keeps its record and history but cannot sign in through
// either the password or the Google path. Plain strings rather than a named
// type, so Mongo filters and JSON payloads use them directly.
package status

const (
	Active   = "active"
	Disabled = "disabled"
)

// IsValid reports whether s is a recognized status. Callers normalize case
// first (normalize.Status).
func IsValid(s string) bool {
	return s == Active || s == Disabled
}

// Default is the status for newly created accounts.
func Default() string {
	return Active
}
