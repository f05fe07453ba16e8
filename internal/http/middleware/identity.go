package middleware

import (
	"context"
	"net/http"
	"strings"

	"hirelane/internal/common"
	"hirelane/internal/domain/user"
	"hirelane/internal/http/response"
)

type contextKey string

const (
	ContextUserIDKey contextKey = "user_id"
	ContextRoleKey   contextKey = "role"
)

// Identity materializes the actor forwarded by the upstream gateway into the
// request context. Authentication and token validation happen at the
// gateway; this service only trusts the forwarded identity headers and still
// re-validates resource ownership in the service layer.
type Identity struct{}

func NewIdentity() *Identity {
	return &Identity{}
}

func (m *Identity) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := strings.TrimSpace(r.Header.Get("X-Actor-ID"))
		if rawID == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing actor identity", nil))
			return
		}
		actorID, err := common.ParseUUID(rawID)
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid actor id", err))
			return
		}
		role := user.Role(strings.ToLower(strings.TrimSpace(r.Header.Get("X-Actor-Role"))))
		switch role {
		case user.RoleApplicant, user.RoleRecruiter, user.RoleAdmin:
		default:
			response.Error(w, common.NewError(common.CodeUnauthorized, "unknown actor role", nil))
			return
		}
		ctx := context.WithValue(r.Context(), ContextUserIDKey, actorID)
		ctx = context.WithValue(ctx, ContextRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			activeRole, ok := r.Context().Value(ContextRoleKey).(user.Role)
			if !ok || activeRole == "" {
				response.Error(w, common.NewError(common.CodeForbidden, "role not found", nil))
				return
			}
			for _, role := range roles {
				if activeRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
		})
	}
}

func UserIDFromContext(ctx context.Context) (common.UUID, bool) {
	id, ok := ctx.Value(ContextUserIDKey).(common.UUID)
	return id, ok
}

func RoleFromContext(ctx context.Context) (user.Role, bool) {
	role, ok := ctx.Value(ContextRoleKey).(user.Role)
	return role, ok
}
