package crypto

import "github.com/golang-jwt/jwt/v5"

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// Claims are the registered claims plus the token kind, so a refresh token
// can never be presented where an access token is expected.
type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"kind"`
}
