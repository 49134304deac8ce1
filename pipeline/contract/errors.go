package contract

import "errors"

var (
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrNotStaged           = errors.New("record cache is not staged")
	ErrNotFound            = errors.New("record not found")
	ErrMalformedLayout     = errors.New("unexpected slide layout")
	ErrMissingInput        = errors.New("required input missing")
)
