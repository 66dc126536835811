package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/riderhub/riderhub-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uint
	Email    string
	UserType enums.UserType
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   uint           `json:"user_id"`
	Email    string         `json:"email"`
	UserType enums.UserType `json:"user_type"`
	jwt.RegisteredClaims
}
