package imaging

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for unrecognized channel names, modes and
// mismatched input matrices.
var ErrInvalidArgument = errors.New("invalid argument")

// DecodeError reports that an image file could not be opened or decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
