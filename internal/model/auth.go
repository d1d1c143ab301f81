package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are JWT claims binding a bearer to one diagnosis session
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}
