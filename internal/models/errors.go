package models

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("share not found")
	ErrSizeResolution      = errors.New("chunk size resolution failed")
	ErrUpstreamFetch       = errors.New("upstream fetch failed")
	ErrMalformedLocator    = errors.New("malformed chunk locator")
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")
	ErrNoGateway           = errors.New("no blob gateway configured")
)
