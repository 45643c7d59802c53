package crypto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/xhit/go-str2duration/v2"

	"github.com/godamri/helix-api/config"
)

var ErrWrongTokenKind = errors.New("crypto: unexpected token kind")

type signingKey struct {
	secret []byte
	ttl    time.Duration
}

// TokenPair is what a successful sign-in hands back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// TokenIssuer signs and verifies HS256 access/refresh tokens with
// separate secrets and lifetimes.
type TokenIssuer struct {
	issuer  string
	access  signingKey
	refresh signingKey
	now     func() time.Time
}

// NewTokenIssuer parses the configured lifetimes up front so a bad
// expiration string stops the process at startup.
func NewTokenIssuer(cfg config.AuthConfig, issuer string) (*TokenIssuer, error) {
	accessTTL, err := ParseExpiry(cfg.AccessExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("crypto: JWT_ACCESS_EXPIRES_IN: %w", err)
	}
	refreshTTL, err := ParseExpiry(cfg.RefreshExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("crypto: JWT_REFRESH_EXPIRES_IN: %w", err)
	}
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("crypto: signing secrets must not be empty")
	}

	return &TokenIssuer{
		issuer:  issuer,
		access:  signingKey{secret: []byte(cfg.AccessSecret), ttl: accessTTL},
		refresh: signingKey{secret: []byte(cfg.RefreshSecret), ttl: refreshTTL},
		now:     time.Now,
	}, nil
}

func (i *TokenIssuer) AccessTTL() time.Duration { return i.access.ttl }

func (i *TokenIssuer) RefreshTTL() time.Duration { return i.refresh.ttl }

// Issue signs a fresh access/refresh pair for subject.
func (i *TokenIssuer) Issue(subject string) (TokenPair, error) {
	if subject == "" {
		return TokenPair{}, errors.New("crypto: subject is required")
	}

	access, err := i.sign(subject, AccessToken, i.access)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(subject, RefreshToken, i.refresh)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    i.access.ttl,
		RefreshTTL:   i.refresh.ttl,
	}, nil
}

func (i *TokenIssuer) VerifyAccess(token string) (*Claims, error) {
	return i.verify(token, AccessToken, i.access)
}

func (i *TokenIssuer) VerifyRefresh(token string) (*Claims, error) {
	return i.verify(token, RefreshToken, i.refresh)
}

func (i *TokenIssuer) sign(subject string, kind TokenKind, key signingKey) (string, error) {
	issuedAt := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(key.ttl)),
		},
		Kind: kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key.secret)
	if err != nil {
		return "", fmt.Errorf("crypto: failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (i *TokenIssuer) verify(token string, kind TokenKind, key signingKey) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return key.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("crypto: invalid %s token: %w", kind, err)
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}

// ParseExpiry reads lifetimes such as "15m", "7d" or "2w".
// A bare integer is a number of seconds.
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty expiration")
	}

	var (
		d   time.Duration
		err error
	)
	if n, convErr := strconv.ParseInt(s, 10, 64); convErr == nil {
		d = time.Duration(n) * time.Second
	} else {
		d, err = str2duration.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid expiration %q: %w", s, err)
		}
	}

	if d <= 0 {
		return 0, fmt.Errorf("expiration %q must be positive", s)
	}
	return d, nil
}
