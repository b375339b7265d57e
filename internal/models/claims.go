package models

import "github.com/golang-jwt/jwt/v5"

// UserClaims is the identity carried by a bearer token.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	TokenVersion int    `json:"token_version"`
}

// Identity is the externally validated actor handed to the services.
type Identity struct {
	UserID uint
	Role   Role
}

func (c *UserClaims) Identity() Identity {
	return Identity{UserID: c.UserID, Role: c.Role}
}
