package model

import "github.com/golang-jwt/jwt"

// UserClaims is the bearer token payload: the opaque subject id plus the
// display name, with a fixed server-side expiry.
type UserClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	jwt.StandardClaims
}
