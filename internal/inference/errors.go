package inference

import "errors"

// Adapter failures fall into two classes. Transport failures are
// transient and retried up to the attempt limit; permanent failures
// (rejected request, auth) propagate immediately and abort the workflow.
var (
	ErrTransport = errors.New("inference transport failure")
	ErrPermanent = errors.New("inference request rejected")
)
