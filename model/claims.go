package model

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of the short-lived access token.
type AccessClaims struct {
	UserID   int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of the long-lived refresh token.
// RegisteredClaims.ID (jti) makes every minted refresh token unique.
type RefreshClaims struct {
	UserID int `json:"id"`
	jwt.RegisteredClaims
}
