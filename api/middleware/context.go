package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
	ctxEmail  contextKey = "actor_email"
)

// Principal is the authenticated dashboard user attached to a request.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   enums.StaffRole
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}

// PrincipalFromContext rebuilds the authenticated user from the request context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	userID, err := uuid.Parse(UserIDFromContext(ctx))
	if err != nil {
		return Principal{}, false
	}
	role := enums.StaffRole(RoleFromContext(ctx))
	if !role.IsValid() {
		return Principal{}, false
	}
	return Principal{UserID: userID, Email: EmailFromContext(ctx), Role: role}, true
}

// WithPrincipal injects the authenticated user into the context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, p.UserID.String())
	ctx = context.WithValue(ctx, ctxRole, string(p.Role))
	return context.WithValue(ctx, ctxEmail, p.Email)
}
