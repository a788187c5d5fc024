package format

import "errors"

var (
	// ErrUnknownEncoding is returned for encodings not in the catalog.
	ErrUnknownEncoding = errors.New("unknown audio encoding")
	// ErrNoPlayableFormat is returned when no encoding in a preference
	// list is reported playable by the host.
	ErrNoPlayableFormat = errors.New("no playable audio format")
	// ErrInvalidExtension is returned by the strict extension validator.
	ErrInvalidExtension = errors.New("invalid audio extension")
)
