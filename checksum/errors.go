package checksum

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch is returned when a source yields a different number of
// bytes than it reported.
var ErrSizeMismatch = errors.New("checksum: size mismatch")

// SourceError attaches the source name to a failure.
type SourceError struct {
	Name string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
