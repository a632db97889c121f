package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/pizzeria/internal/pkg/telemetry"
)

// AttachRequestID copies the ID assigned by chi's RequestID middleware into
// the context read by the logger and echoes it on the response.
func AttachRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set(telemetry.HeaderRequestID, requestID)
		ctx := telemetry.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
