package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
)

// maxInheritedRequestIDLen bounds ids taken from the incoming header; longer
// values are replaced rather than truncated so a given id is never ambiguous
// between the access log and the provider submit log.
const maxInheritedRequestIDLen = 64

// RequestID assigns every request an id that follows it through the access
// log, the generation record and the provider submission. The form may pass
// its own X-Request-ID to correlate a generate call with its SSE stream;
// anything unusable is replaced with a fresh uuid.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" || len(rid) > maxInheritedRequestIDLen {
			rid = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
