package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/evidenta/portal-backend/internal/domain/auth"
	"github.com/evidenta/portal-backend/internal/domain/user"
	"github.com/evidenta/portal-backend/internal/handler/http/response"
)

type capabilityKey struct{}

// WithCapability turns verified token claims into an explicit
// user.Capability on the request context. Everything downstream of it
// receives the caller's entitlements as a value instead of re-reading
// claims. Must run after AuthRequired.
func WithCapability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}
		role, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		cap := user.Capability{
			UserID: int64(userID),
			Role:   user.Role(role),
		}
		if employeeID, ok := claims["employee_id"].(float64); ok {
			id := int64(employeeID)
			cap.EmployeeID = &id
		}

		ctx := context.WithValue(r.Context(), capabilityKey{}, cap)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CapabilityFromContext returns the capability placed by WithCapability.
func CapabilityFromContext(ctx context.Context) (user.Capability, bool) {
	cap, ok := ctx.Value(capabilityKey{}).(user.Capability)
	return cap, ok
}
