package commands

import "fmt"

// MaxExitCode caps the exit status; larger values are reserved by shells.
const MaxExitCode = 125

// ExitError reports a completed command whose findings require a non-zero
// exit status. Its details have already been printed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitStatus returns nil for a zero count and an ExitError otherwise.
func exitStatus(errors int) error {
	if errors <= 0 {
		return nil
	}
	return &ExitError{Code: min(errors, MaxExitCode)}
}
