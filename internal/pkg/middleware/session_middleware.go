package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/cityline-transit/ct-ticket/internal/pkg/jwt"
	"github.com/cityline-transit/ct-ticket/internal/pkg/session"
	"github.com/cityline-transit/ct-ticket/pkg/response"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

func bearerFromRequest(r *http.Request) (string, bool) {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer"))
	if token == "" {
		return "", false
	}

	return token, true
}

func unauthorized(w http.ResponseWriter, message string) {
	response.JSON(w, http.StatusUnauthorized, response.RESTEnvelope{
		Status:  status.UNAUTHORIZED,
		Message: message,
	})
}

type sessionVerifier struct {
	jsonWebToken jwt.JSONWebToken
	sessionStore session.Store
}

// verify parses the bearer token and resolves the caller's account, reading
// through the session cache keyed by the token id.
func (v *sessionVerifier) verify(r *http.Request) (session.Account, string, error) {
	token, ok := bearerFromRequest(r)
	if !ok {
		return session.Account{}, "", http.ErrNoCookie
	}

	claims, err := v.jsonWebToken.Parse(token)
	if err != nil {
		return session.Account{}, "", err
	}

	acc, err := v.sessionStore.Get(r.Context(), claims.ID)
	if err == nil {
		return acc, token, nil
	}

	acc = session.Account{
		Username: claims.Subject,
		Role:     claims.Role,
		Age:      claims.Age,
	}

	if claims.ExpiresAt != nil {
		expiresIn := time.Until(claims.ExpiresAt.Time)
		if expiresIn > 0 {
			v.sessionStore.Save(r.Context(), claims.ID, acc, expiresIn)
		}
	}

	return acc, token, nil
}

type CustomerSession struct {
	verifier sessionVerifier
}

func NewCustomerSessionMiddleware(jsonWebToken jwt.JSONWebToken, sessionStore session.Store) *CustomerSession {
	return &CustomerSession{
		verifier: sessionVerifier{
			jsonWebToken: jsonWebToken,
			sessionStore: sessionStore,
		},
	}
}

func (m *CustomerSession) Verify(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, token, err := m.verifier.verify(r)
		if err != nil {
			unauthorized(w, "customer session is not valid")
			return
		}

		if acc.Role != jwt.RoleCustomer {
			unauthorized(w, "customer session is not valid")
			return
		}

		ctx := session.SetAccountToCtx(r.Context(), acc)
		ctx = session.SetTokenToCtx(ctx, token)

		next(w, r.WithContext(ctx))
	}
}

type AdminSession struct {
	verifier sessionVerifier
}

func NewAdminSessionMiddleware(jsonWebToken jwt.JSONWebToken, sessionStore session.Store) *AdminSession {
	return &AdminSession{
		verifier: sessionVerifier{
			jsonWebToken: jsonWebToken,
			sessionStore: sessionStore,
		},
	}
}

func (m *AdminSession) Verify(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, token, err := m.verifier.verify(r)
		if err != nil {
			unauthorized(w, "admin session is not valid")
			return
		}

		if acc.Role != jwt.RoleAdmin {
			unauthorized(w, "admin session is not valid")
			return
		}

		ctx := session.SetAccountToCtx(r.Context(), acc)
		ctx = session.SetTokenToCtx(ctx, token)

		next(w, r.WithContext(ctx))
	}
}

// AnySession admits both customer and admin tokens; the use case decides on
// ownership.
type AnySession struct {
	verifier sessionVerifier
}

func NewAnySessionMiddleware(jsonWebToken jwt.JSONWebToken, sessionStore session.Store) *AnySession {
	return &AnySession{
		verifier: sessionVerifier{
			jsonWebToken: jsonWebToken,
			sessionStore: sessionStore,
		},
	}
}

func (m *AnySession) Verify(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acc, token, err := m.verifier.verify(r)
		if err != nil {
			unauthorized(w, "session is not valid")
			return
		}

		ctx := session.SetAccountToCtx(r.Context(), acc)
		ctx = session.SetTokenToCtx(ctx, token)

		next(w, r.WithContext(ctx))
	}
}
