package domain

import "errors"

var (
	// ErrInvalidArgument reports an unrecognized category, stream, event kind or direction.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMissingData reports that a field required for a computation is absent.
	ErrMissingData = errors.New("missing data")
	// ErrNotFound reports an unknown site, configuration key or filesystem path.
	ErrNotFound = errors.New("not found")
	// ErrTransport reports a non-success response from a remote source.
	ErrTransport = errors.New("transport failure")
	// ErrParse reports a field value that matches no known format.
	ErrParse = errors.New("parse failure")
	// ErrInvalidCoordinates reports a latitude/longitude pair outside the valid range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)
