package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"MAGANG-backend/internal/platform/clock"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer は HS256 の JWT を発行・検証する。
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, clock: clock.Real()}
}

func (t *TokenIssuer) WithClock(c clock.Clock) *TokenIssuer {
	t.clock = c
	return t
}

func (t *TokenIssuer) Issue(p Principal) (string, time.Time, error) {
	exp := t.clock.Now().Add(t.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.FormatInt(p.UserID, 10),
		"role":     p.Role,
		"username": p.Username,
		"exp":      exp.Unix(),
	})
	s, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, exp, nil
}

func (t *TokenIssuer) Parse(tokenStr string) (Principal, error) {
	token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || token == nil || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return Principal{}, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	if role != RoleAdmin && role != RoleIntern {
		return Principal{}, ErrInvalidToken
	}
	username, _ := claims["username"].(string)

	return Principal{UserID: id, Username: username, Role: role}, nil
}
