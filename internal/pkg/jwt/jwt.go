package jwt

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

type AccountClaims struct {
	Role string `json:"role"`
	Age  *int64 `json:"age,omitempty"`
	gojwt.RegisteredClaims
}

type JSONWebToken interface {
	Generate(subject string, role string, age *int64, expiresIn time.Duration) (string, error)
	Parse(tokenString string) (*AccountClaims, error)
}

type jsonWebToken struct {
	secret []byte
}

func NewJSONWebToken(secret string) JSONWebToken {
	return &jsonWebToken{
		secret: []byte(secret),
	}
}

// Generate implements JSONWebToken.
func (j *jsonWebToken) Generate(subject string, role string, age *int64, expiresIn time.Duration) (string, error) {
	now := time.Now()

	claims := AccountClaims{
		Role: role,
		Age:  age,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(expiresIn)),
			ID:        uuid.NewString(),
		},
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)

	return token.SignedString(j.secret)
}

// Parse implements JSONWebToken.
func (j *jsonWebToken) Parse(tokenString string) (*AccountClaims, error) {
	claims := &AccountClaims{}

	token, err := gojwt.ParseWithClaims(tokenString, claims, func(t *gojwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method '%v'", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return claims, nil
}
