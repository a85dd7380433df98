package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/evidenta/portal-backend/internal/domain/auth"
	"github.com/evidenta/portal-backend/internal/domain/user"
	"github.com/evidenta/portal-backend/internal/pkg/database"
	"github.com/evidenta/portal-backend/internal/pkg/jwt"
	"github.com/evidenta/portal-backend/internal/repository/postgresql"
)

type AuthServiceImpl struct {
	db *database.DB
	user.UserRepository
	jwtService    jwt.Service
	jwtRepository postgresql.JWTRepository
}

func NewAuthService(db *database.DB, userRepository user.UserRepository, jwtService jwt.Service, jwtRepository postgresql.JWTRepository) auth.AuthService {
	return &AuthServiceImpl{
		db:             db,
		UserRepository: userRepository,
		jwtService:     jwtService,
		jwtRepository:  jwtRepository,
	}
}

func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenPair, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenPair{}, err
	}

	userData, err := a.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenPair{}, auth.ErrInvalidCredentials
		}
		return auth.TokenPair{}, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenPair{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, userData)
}

func (a *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	userID, _, err := a.jwtService.ParseRefreshToken(refreshToken)
	if err != nil {
		return auth.TokenPair{}, auth.ErrInvalidToken
	}

	revoked, err := a.jwtRepository.IsRefreshTokenRevoked(ctx, refreshToken)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.TokenPair{}, auth.ErrTokenRevoked
	}

	userData, err := a.GetByID(ctx, userID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to load user: %w", err)
	}

	// Rotate: the used token is revoked inside the same transaction
	// that records its replacement.
	var pair auth.TokenPair
	err = postgresql.WithTransaction(ctx, a.db, func(txCtx context.Context) error {
		if err := a.jwtRepository.RevokeRefreshToken(txCtx, refreshToken); err != nil {
			return err
		}
		pair, err = a.issueTokens(txCtx, userData)
		return err
	})
	if err != nil {
		return auth.TokenPair{}, err
	}
	return pair, nil
}

func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if err := a.jwtRepository.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, userData user.User) (auth.TokenPair, error) {
	accessToken, accessExpiresAt, err := a.jwtService.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, tokenID, refreshExpiresAt, err := a.jwtService.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := a.jwtRepository.CreateRefreshToken(ctx, userData.ID, tokenID, refreshToken, refreshExpiresAt); err != nil {
		return auth.TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return auth.TokenPair{
		AccessToken:      accessToken,
		ExpiresAt:        accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}
