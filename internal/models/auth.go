package models

import "github.com/golang-jwt/jwt/v5"

// UserRole is the role claim asserted by the identity provider.
type UserRole string

const (
	RoleStudent   UserRole = "STUDENT"
	RolePreceptor UserRole = "PRECEPTOR"
	RoleAdmin     UserRole = "ADMIN"
)

// JWTClaims is the access token payload issued by the identity provider. The subject
// claim is the student id.
type JWTClaims struct {
	Email string   `json:"email"`
	Role  UserRole `json:"user_role"`
	jwt.RegisteredClaims
}

// StudentID returns the subject claim.
func (c *JWTClaims) StudentID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
