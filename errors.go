package seahash

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedInput is returned when a value passed to UpdateAny or
	// Resolve is neither byte-like nor a memory view.
	ErrUnsupportedInput = errors.New("expected a bytes-like object")

	// ErrInvalidView is returned when a borrowed view has a nil pointer with a
	// non-zero length, or a negative length.
	ErrInvalidView = errors.New("invalid borrowed view")

	// ErrInvalidDigest is returned when a digest cannot be decoded.
	ErrInvalidDigest = errors.New("invalid digest")

	// ErrInvalidSeed is returned when a seed string cannot be parsed.
	ErrInvalidSeed = errors.New("invalid seed")

	// ErrInvalidState is returned when a serialized hasher cannot be decoded.
	ErrInvalidState = errors.New("invalid hasher state")
)

// InputTypeError reports an unsupported input type.
//
// It wraps ErrUnsupportedInput, so errors.Is(err, ErrUnsupportedInput) holds.
type InputTypeError struct {
	Type string
}

func (e *InputTypeError) Error() string {
	return fmt.Sprintf("%s, got %s", ErrUnsupportedInput.Error(), e.Type)
}

func (e *InputTypeError) Unwrap() error { return ErrUnsupportedInput }
