package timeout

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds every request context, so store and catalog calls made by handlers give up
// after the given number of seconds.
func Timeout(seconds time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), seconds*time.Second)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
