package medals

import "errors"

// Sentinel kinds for selection errors.
var (
	ErrUnknownSex = errors.New("unknown sex")
)
