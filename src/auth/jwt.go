package auth

import (
	"errors"
	"fmt"
	users "movienest/src/modules/users/models"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the caller a token was issued to.
type Principal struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == users.RoleAdmin
}

// CanActFor reports whether the caller may touch data owned by userID.
func (p Principal) CanActFor(userID uint) bool {
	return p.IsAdmin() || p.UserID == userID
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens. A zero ttl issues tokens that
// never expire.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) Issue(p Principal) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: p.Username,
		Role:     p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(p.UserID), 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *Issuer) Parse(tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return Principal{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, errors.New("invalid token")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return Principal{}, errors.New("invalid token subject")
	}
	return Principal{UserID: uint(id), Username: claims.Username, Role: claims.Role}, nil
}
