package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (TokenResponse, error)

	// Validate resolves the user behind the access token stored in ctx.
	Validate(ctx context.Context) (UserResponse, error)

	// EnsureAdmin creates the administrator unless the username already exists.
	EnsureAdmin(ctx context.Context, req BootstrapAdminRequest) (created bool, err error)
}
