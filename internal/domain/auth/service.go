package auth

import "context"

// AuthService defines business logic for session handling
type AuthService interface {
	// Login verifies credentials and issues an access/refresh pair.
	Login(ctx context.Context, req LoginRequest) (TokenPair, error)

	// RefreshToken rotates a valid refresh token into a new pair.
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, error)

	// Logout revokes the given refresh token.
	Logout(ctx context.Context, refreshToken string) error
}
