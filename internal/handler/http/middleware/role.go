package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/handler/http/response"
)

// RequireAdmin requires the Admin role. It must run after AuthRequired.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if caller.Role != string(employee.RoleAdmin) {
			response.HandleError(w, auth.ErrAdminOnly)
			return
		}

		next.ServeHTTP(w, r)
	})
}
