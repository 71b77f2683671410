package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims identify one browser session. The token has no expiry; the
// cookie carrying it is dropped when the browser session ends.
type SessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// GenerateSessionToken mints a new session id and its signed token.
func GenerateSessionToken(secret string) (token string, sid string, err error) {
	sid = uuid.NewString()
	c := SessionClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}
	return token, sid, nil
}

func ParseSessionToken(secret, tokenStr string) (*SessionClaims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	claims, ok := t.Claims.(*SessionClaims)
	if !ok || !t.Valid {
		return nil, ErrInvalidSession
	}
	if _, err := uuid.Parse(claims.SID); err != nil {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
