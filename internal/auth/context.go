package auth

import (
	"context"

	"google.golang.org/grpc/metadata"

	"github.com/fekuna/omnipos-backoffice/internal/apperror"
)

// Role is the back-office access level carried in the token.
type Role string

const (
	RoleSeller Role = "level1"
	RoleBuyer  Role = "level2"
	RoleAdmin  Role = "admin"
)

const MerchantHeader = "x-merchant-id"

type UserContext struct {
	MerchantID string
	UserID     string
	Role       Role
}

// CanManage reports whether the user may change the category tree.
func (u UserContext) CanManage() bool {
	return u.Role == RoleSeller || u.Role == RoleAdmin
}

type userKey struct{}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromContext(ctx context.Context) (UserContext, bool) {
	u, ok := ctx.Value(userKey{}).(UserContext)
	return u, ok
}

// GetMerchantID returns the merchant of the authenticated user, falling back
// to x-merchant-id metadata for calls that came through a trusted gateway.
func GetMerchantID(ctx context.Context) string {
	if u, ok := FromContext(ctx); ok && u.MerchantID != "" {
		return u.MerchantID
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(MerchantHeader); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}

// ResolveMerchant picks the merchant a request acts on. Admins may target any
// merchant via the override; everyone else is pinned to their own.
func ResolveMerchant(u UserContext, override string) (string, error) {
	if u.Role == RoleAdmin && override != "" {
		return override, nil
	}
	if override != "" && override != u.MerchantID {
		return "", apperror.NewForbiddenError("cannot act on another merchant")
	}
	if u.MerchantID == "" {
		return "", apperror.NewUnauthorizedError("missing merchant context")
	}
	return u.MerchantID, nil
}
