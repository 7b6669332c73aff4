// Package httpmiddleware holds the HTTP middleware chain shared by the API
// server: panic recovery, request identifiers, and request logging.
package httpmiddleware

import "net/http"

type Middleware func(http.Handler) http.Handler

// Wrap applies middlewares to h so that the first middleware listed is the
// outermost one at request time.
func Wrap(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
