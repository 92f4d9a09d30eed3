package icefast

import "errors"

// ErrInvalidKey is returned when a key is too short for the requested level.
var ErrInvalidKey = errors.New("icefast: invalid key size")
