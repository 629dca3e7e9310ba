package cli

import "github.com/yaklabco/mdcore/pkg/runner"

// Exit codes for mdcore.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitBrokenLinks indicates validation completed but found broken links.
	ExitBrokenLinks = 1

	// ExitFailures indicates fatal validation errors or unreadable files.
	ExitFailures = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// usageError marks err as a command-line usage error.
func usageError(err error) error {
	return &ExitError{Code: ExitInvalidUsage, Err: err}
}

// ExitCodeFromResult determines the exit code of a validation run. In
// lenient mode broken links alone do not fail the run.
func ExitCodeFromResult(result *runner.Result, lenient bool) int {
	switch {
	case result.HasFailures():
		return ExitFailures
	case result.HasIssues() && !lenient:
		return ExitBrokenLinks
	default:
		return ExitSuccess
	}
}
