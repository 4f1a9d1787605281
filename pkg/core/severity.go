package core

import "strings"

// =============================================================================
// Severity
// =============================================================================

// Severity indicates how a finding affects the outcome of a run.
type Severity int

// Severity levels for findings.
const (
	// SeverityError counts toward the process exit code.
	SeverityError Severity = iota
	// SeverityWarning is reported and summarized but does not fail the run.
	SeverityWarning
	// SeverityOff suppresses the finding entirely.
	SeverityOff
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityOff:
		return "off"
	default:
		return "unknown"
	}
}

// Label returns the capitalized prefix used in report headers.
func (s Severity) Label() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	case "off", "none", "ignore":
		return SeverityOff, true
	default:
		return SeverityWarning, false
	}
}
