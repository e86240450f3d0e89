package cli

import "errors"

var (
	// ErrUsage indicates invalid flags or arguments.
	ErrUsage = errors.New("usage error")

	// ErrFailed indicates that at least one source could not be hashed or
	// did not match its expected digest.
	ErrFailed = errors.New("checksum failed")
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrUsage) {
		return 2
	}
	return 1
}
