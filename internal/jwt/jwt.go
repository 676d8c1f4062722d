package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	internal_errors "github.com/torchan-dev/torchan/internal/errors"
	"github.com/torchan-dev/torchan/internal/logger"
)

type JwtService interface {
	NewModeratorToken() (string, error)
	DecodeToken(jwtStr string) (*jwt.Token, error)
	// Authorize implements the moderation gateway's session check.
	Authorize(sessionToken string) bool
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

// NewModeratorToken issues a moderator session. There is a single moderator
// role; the token carries no identity beyond it.
func (j *Jwt) NewModeratorToken() (string, error) {
	claims := jwt.MapClaims{}
	claims["mod"] = true
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "error", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, internal_errors.Unauthorized("Invalid token signature")
	}

	if !token.Valid {
		return nil, internal_errors.Unauthorized("Invalid access token")
	}

	return token, nil
}

// Authorize reports whether sessionToken is a valid moderator session.
func (j *Jwt) Authorize(sessionToken string) bool {
	token, err := j.DecodeToken(sessionToken)
	if err != nil {
		return false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	isMod, _ := claims["mod"].(bool)
	return isMod
}
