// Package recovery keeps a panicking fake handler from killing the test
// server: the request gets a 500 envelope and the stack goes to the log.
package recovery

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/BryceLarsen/Requestwave-sub001/internal/fakeapi/respond"
)

// New returns a router middleware that converts handler panics into a
// standard 500 error answer. http.ErrAbortHandler is re-raised so the
// server can drop the connection as usual.
func New(logger zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				route := r.URL.Path
				if cur := mux.CurrentRoute(r); cur != nil {
					if tpl, err := cur.GetPathTemplate(); err == nil {
						route = tpl
					}
				}
				logger.Error().
					Stack().
					Err(fmt.Errorf("panic: %v", rec)).
					Str("method", r.Method).
					Str("route", route).
					Msg("handler panicked")
				respond.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("%s %s panicked", r.Method, route))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
