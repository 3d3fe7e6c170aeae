// Package requesttime captures one "now" per request so timestamps written by
// a single request (deleted_at, audit rows, date_evaluation) agree.
package requesttime

import (
	"net/http"
	"time"

	"missionsuivi/pkg/requestcontext"
)

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
