package app

import (
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"todolist/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// nonceAlphabet is the printable ASCII set: digits, letters, punctuation and
// whitespace.
const nonceAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~ \t\n\r\x0b\x0c"

const nonceLength = 24

// SessionData is the application payload of a session token.
type SessionData struct {
	Login string `json:"login"`
}

// Claims is the claim set of a session token. The registered claims carry
// iat, nbf, exp, jti (nonce) and iss.
type Claims struct {
	Data SessionData `json:"data"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless session tokens.
//
// There is no server-side session table: a token stays valid until it
// expires, logout only clears the cookie, and the jti nonce is informational
// and never checked for reuse.
type TokenService struct {
	key      []byte
	method   jwt.SigningMethod
	issuer   string
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenService builds a TokenService from the token configuration.
func NewTokenService(cfg config.Token) (*TokenService, error) {
	if cfg.Key == "" {
		return nil, errors.New("token key is required")
	}
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("token algorithm must be HS256, HS384 or HS512")
	}
	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	return &TokenService{
		key:      []byte(cfg.Key),
		method:   method,
		issuer:   cfg.Issuer,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Lifetime returns how long issued tokens stay valid.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue signs a new token for login.
func (s *TokenService) Issue(login string) (string, error) {
	now := s.now().Truncate(time.Second)
	claims := Claims{
		Data: SessionData{Login: login},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			ID:        newNonce(),
		},
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.key)
}

// Verify checks the signature, algorithm, issuer and validity window of raw.
// Any failure yields false; the reason is not reported.
func (s *TokenService) Verify(raw string) (*Claims, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, false
	}
	if claims.Data.Login == "" {
		return nil, false
	}
	return claims, true
}

func newNonce() string {
	b := make([]byte, nonceLength)
	for i := range b {
		b[i] = nonceAlphabet[rand.IntN(len(nonceAlphabet))]
	}
	return string(b)
}
