package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	authModel "desaku_backend/internals/features/users/auth/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Toleransi jam antar server saat cek exp.
const expirySkew = 30 * time.Second

var ErrTokenExpired = errors.New("token expired")

// AccessClaims: isi access token HS256 (id, role, user_name, exp).
type AccessClaims struct {
	UserID    uuid.UUID
	Role      string
	UserName  string
	ExpiresAt time.Time
}

func IssueAccessToken(secret string, u authModel.UserModel, now time.Time, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("jwt secret kosong")
	}
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"id":        u.ID.String(),
		"role":      u.Role,
		"user_name": u.UserName,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccessToken memverifikasi tanda tangan lalu exp (dengan skew) terhadap now.
func ParseAccessToken(secret, raw string, now time.Time) (AccessClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return AccessClaims{}, err
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return AccessClaims{}, errors.New("token has no exp")
	}
	expAt := time.Unix(int64(exp), 0).UTC()
	if now.After(expAt.Add(expirySkew)) {
		return AccessClaims{}, ErrTokenExpired
	}

	idStr, _ := claims["id"].(string)
	id, err := uuid.Parse(strings.TrimSpace(idStr))
	if err != nil {
		return AccessClaims{}, errors.New("invalid user id")
	}
	role, _ := claims["role"].(string)
	name, _ := claims["user_name"].(string)

	return AccessClaims{UserID: id, Role: role, UserName: name, ExpiresAt: expAt}, nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
