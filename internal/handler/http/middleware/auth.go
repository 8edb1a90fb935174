package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/employee-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/employee-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type callerKey struct{}

// Caller is the verified identity behind a request.
type Caller struct {
	ID        string
	Email     string
	Role      string
	Token     string
	ExpiresAt time.Time
}

// CallerFromContext returns the identity stored by AuthRequired.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	return caller, ok
}

// WithCaller stores caller in ctx.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// AuthRequired expects jwtauth.Verifier to run first. It rejects missing,
// non-access and revoked tokens and stores the caller identity in the context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			if userID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			raw := jwtauth.TokenFromHeader(r)
			revoked, err := jwtService.IsTokenRevoked(r.Context(), raw)
			if err != nil {
				// Fail closed when the revocation store is unreachable.
				slog.Error("failed to check token revocation", "error", err)
				response.HandleError(w, err)
				return
			}
			if revoked {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			email, _ := claims["email"].(string)
			role, _ := claims["role"].(string)

			ctx := WithCaller(r.Context(), Caller{
				ID:        userID,
				Email:     email,
				Role:      role,
				Token:     raw,
				ExpiresAt: token.Expiration(),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
