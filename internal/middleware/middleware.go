package middleware

import "net/http"

// Middleware decorates the run API router, see app.App.Handler.
type Middleware func(http.Handler) http.Handler

// Wrap applies mws in order, so the last one listed is the outermost
// and sees every request first.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for _, mw := range mws {
		h = mw(h)
	}
	return h
}
