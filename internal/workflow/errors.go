package workflow

import "errors"

// Node-scoped errors wrap the failures raised inside pipeline stages.
// Only raised errors abort a workflow; a tool that degrades into a
// low-confidence result does not produce one of these.
var (
	ErrClassifyFailed     = errors.New("classification failed")
	ErrAuthenticateFailed = errors.New("authenticity check failed")
	ErrExtractFailed      = errors.New("field extraction failed")
	ErrReconcileFailed    = errors.New("consistency check failed")
)
