package jwt

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/evidenta/portal-backend/internal/domain/user"
)

type Service interface {
	GenerateAccessToken(userID int64, email string, employeeID *int64, role user.Role) (token string, expiresAt int64, err error)
	GenerateRefreshToken(userID int64) (token string, tokenID string, expiresAt int64, err error)
	ParseRefreshToken(tokenString string) (userID int64, tokenID string, err error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
}

type JWTService struct {
	secretKey                  string
	accessTokenExpirationTime  string
	refreshTokenExpirationTime string
	tokenAuth                  *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                  secretKey,
		accessTokenExpirationTime:  accessTokenExpirationTime,
		refreshTokenExpirationTime: refreshTokenExpirationTime,
		tokenAuth:                  jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID int64, email string, employeeID *int64, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    "access",
		"exp":     expiresAt,
	}
	if employeeID != nil {
		claims["employee_id"] = *employeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateRefreshToken issues a refresh token carrying a fresh jti so a
// single token can be revoked without invalidating the user's others.
func (j *JWTService) GenerateRefreshToken(userID int64) (token string, tokenID string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.refreshTokenExpirationTime)
	if err != nil {
		return "", "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()
	tokenID = uuid.NewString()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"jti":     tokenID,
		"type":    "refresh",
		"exp":     expiresAt,
	})
	return tokenString, tokenID, expiresAt, err
}

func (j *JWTService) ParseRefreshToken(tokenString string) (userID int64, tokenID string, err error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return 0, "", err
	}
	if err := jwt.Validate(token, jwt.WithAcceptableSkew(30*time.Second)); err != nil {
		return 0, "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "refresh" {
		return 0, "", jwt.ErrInvalidJWT()
	}

	userIDVal, ok := token.Get("user_id")
	if !ok {
		return 0, "", jwt.ErrInvalidJWT()
	}
	userIDFloat, ok := userIDVal.(float64)
	if !ok {
		return 0, "", jwt.ErrInvalidJWT()
	}

	return int64(userIDFloat), token.JwtID(), nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api/v1/auth",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
	}
}
