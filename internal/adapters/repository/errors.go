package repository

import "errors"

// Sentinel kinds for dataset loading errors. All of them are fatal at startup.
var (
	ErrOpen          = errors.New("open dataset failed")
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrUnknownFormat = errors.New("unknown dataset format")
	ErrInvalidTable  = errors.New("invalid table name")
)
