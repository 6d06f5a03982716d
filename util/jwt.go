package util

import (
	"fmt"
	"movie_curator/configs"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const anonymousPrefix = "anon-"

type SessionClaims struct {
	UserId      string `json:"userId"`
	GeneratedAt int64  `json:"generatedAt"`
	jwt.RegisteredClaims
}

func NewAnonymousUserId() string {
	return anonymousPrefix + uuid.NewString()
}

func IsAnonymousUserId(userId string) bool {
	return strings.HasPrefix(userId, anonymousPrefix)
}

// CreateSessionToken signs the identity of an anonymous user so it survives
// across requests without a sign-in.
func CreateSessionToken(userId string, duration time.Duration) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(duration)
	claims := SessionClaims{
		UserId:      userId,
		GeneratedAt: now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.GetConfigs().SessionTokenSecret))
	if err != nil {
		return "", 0, err
	}
	return signed, expiresAt.UnixMilli(), nil
}

func VerifySessionToken(tokenString string) (*jwt.Token, *SessionClaims, error) {
	claims := SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signature method")
		}
		return []byte(configs.GetConfigs().SessionTokenSecret), nil
	})

	if err != nil {
		return nil, nil, err
	}
	if claims.UserId == "" {
		return nil, nil, fmt.Errorf("session token without userId")
	}

	return token, &claims, nil
}
