package middleware

import (
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"tta-backend/pkg/utils"
)

// PanicRecovery turns a handler panic into a 500 with the standard
// error envelope, logging the request line and stack so the crash can
// be traced to an endpoint.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[HTTP] Panic on %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.Error(w, errors.New("internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
