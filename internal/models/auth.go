package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest holds credentials for authenticating an account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// JWTClaims is the payload of the session token carried by the
// authToken cookie.
type JWTClaims struct {
	AccountID string      `json:"accountId"`
	Role      AccountRole `json:"role"`
	jwt.RegisteredClaims
}
