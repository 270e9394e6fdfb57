package decode

import "errors"

var (
	// ErrUnsupportedFormat indicates no decoder exists for a format.
	ErrUnsupportedFormat = errors.New("unsupported source format")

	// ErrMalformed indicates the input could not be decoded as its format.
	ErrMalformed = errors.New("malformed input")
)
