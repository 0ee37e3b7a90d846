package codec

import "errors"

// ErrOutOfRange is returned when a numeric argument does not fit its bit field.
var ErrOutOfRange = errors.New("value out of range")
