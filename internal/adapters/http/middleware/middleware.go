// Package middleware provides HTTP middleware for the demo server's inbound
// request pipeline.
//
// The demo chain processes requests in this order:
//
//	Recovery → RequestID → Tracing → Logging → Toolbar → Handler
//
// Each middleware is a func(http.Handler) http.Handler and can be composed
// using the Chain helper. The toolbar middleware itself comes from the root
// debugtoolbar package; everything here is ordinary service plumbing around
// it.
package middleware

import "net/http"

// Chain composes multiple middleware into a single middleware. The first
// argument becomes the outermost middleware (executed first on request,
// last on response). This matches the intuitive reading order:
//
//	Chain(Recovery, RequestID, Logging)(handler)
//
// is equivalent to:
//
//	Recovery(RequestID(Logging(handler)))
func Chain(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(handler http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}
