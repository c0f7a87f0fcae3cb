package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httpmiddleware "github.com/wolfman30/doctor-booking-agent/internal/http/middleware"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

// auditStaff records which staff member touched which conversation.
func auditStaff(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			claims, _ := httpmiddleware.StaffFromContext(r.Context())
			logger.Info("staff conversation access",
				"staff_id", claims.Subject,
				"method", r.Method,
				"conversation_id", chi.URLParam(r, "id"),
			)
		})
	}
}
