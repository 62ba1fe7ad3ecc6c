package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wrenzh/agrolux-panel/pkg/hasher"
)

const tokenTTL = 24 * time.Hour

var errBadCredentials = errors.New("wrong password")

// Auth issues and checks bearer tokens for the panel API. A nil *Auth runs
// the API open, for panels on a trusted greenhouse network.
type Auth struct {
	passwordHash string
	secret       []byte
}

// NewAuth returns nil when no password hash is configured. An empty secret is
// replaced with a random one, which invalidates tokens across restarts.
func NewAuth(passwordHash, secret string) (*Auth, error) {
	if passwordHash == "" {
		return nil, nil
	}
	if secret == "" {
		generated, err := hasher.GenerateToken(32)
		if err != nil {
			return nil, err
		}
		secret = generated
	}
	return &Auth{
		passwordHash: passwordHash,
		secret:       []byte(secret),
	}, nil
}

func (a *Auth) Login(password string) (string, error) {
	if !hasher.PasswordCorrect(password, a.passwordHash) {
		return "", errBadCredentials
	}
	claims := jwt.MapClaims{
		"sub": "panel",
		"iat": jwt.NewNumericDate(time.Now()),
		"exp": jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Auth) ValidToken(tokenString string) bool {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	return err == nil && token.Valid
}
