package window

import "errors"

// ErrInvalidWindow reports a malformed or out-of-range window.
var ErrInvalidWindow = errors.New("invalid window")
