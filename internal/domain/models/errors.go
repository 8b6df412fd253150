package models

import "errors"

// Error taxonomy. Wrap with fmt.Errorf("...: %w", Err...) and test with errors.Is.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrConfiguration = errors.New("configuration error")
	ErrUpstream      = errors.New("upstream failure")
	ErrStorage       = errors.New("storage error")
	// ErrItemFailed marks a per-article or per-symbol failure that is logged and skipped.
	ErrItemFailed = errors.New("item failed")
)
