package auth

import (
	"errors"

	"github.com/fekuna/omnipos-backoffice/internal/apperror"
)

// Gateway headers, set by the API gateway after it has authenticated the
// caller. They are only honoured when the Authenticator trusts the gateway.
const (
	UserHeader = "x-user-id"
	RoleHeader = "x-user-role"
)

// Authenticator resolves the caller of a request from either a bearer token or
// trusted gateway headers. It is shared by the gRPC and HTTP transports.
type Authenticator struct {
	validator    *JWTValidator
	trustGateway bool
}

// NewAuthenticator accepts a nil validator, in which case only gateway headers
// can authenticate.
func NewAuthenticator(v *JWTValidator, trustGateway bool) *Authenticator {
	return &Authenticator{validator: v, trustGateway: trustGateway}
}

// Authenticate returns the user acting on the request. header looks up a
// request header or metadata key. The merchant override header is applied
// through ResolveMerchant, so the returned MerchantID is the one to act on.
func (a *Authenticator) Authenticate(authorization string, header func(string) string) (UserContext, error) {
	var u UserContext
	switch {
	case authorization != "":
		if a.validator == nil {
			return UserContext{}, apperror.NewUnauthorizedError("token authentication is not configured")
		}
		claims, err := a.validator.ValidateToken(authorization)
		if err != nil {
			return UserContext{}, tokenError(err)
		}
		u = claims.User()
	case a.trustGateway && header(MerchantHeader) != "":
		u = UserContext{
			MerchantID: header(MerchantHeader),
			UserID:     header(UserHeader),
			Role:       Role(header(RoleHeader)),
		}
		if u.UserID == "" {
			return UserContext{}, apperror.NewUnauthorizedError("missing user identity")
		}
		if u.Role == "" {
			u.Role = RoleSeller
		}
	default:
		return UserContext{}, apperror.NewUnauthorizedError(ErrMissingToken.Error())
	}

	merchantID, err := ResolveMerchant(u, header(MerchantHeader))
	if err != nil {
		return UserContext{}, err
	}
	u.MerchantID = merchantID
	return u, nil
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, ErrExpiredToken):
		return apperror.NewUnauthorizedError("token has expired").WithCause(err)
	case errors.Is(err, ErrInvalidClaims):
		return apperror.NewUnauthorizedError("invalid token claims").WithCause(err)
	default:
		return apperror.NewUnauthorizedError("invalid token").WithCause(err)
	}
}
