package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// muxPattern composes the ServeMux registration pattern for this route
// under the given resolved group prefix.
func (r Route) muxPattern(prefix string) string {
	return r.Method + " " + prefix + r.Pattern
}
