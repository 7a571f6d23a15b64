package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/pkg/errors"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type contextKey string

const (
	accountContextKey contextKey = "session.account"
	tokenContextKey   contextKey = "session.token"
)

type Account struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Age      *int64 `json:"age,omitempty"`
}

func SetAccountToCtx(ctx context.Context, acc Account) context.Context {
	return context.WithValue(ctx, accountContextKey, acc)
}

func GetAccountFromCtx(ctx context.Context) (Account, error) {
	acc, ok := ctx.Value(accountContextKey).(Account)
	if !ok {
		return Account{}, errors.New(http.StatusUnauthorized, status.UNAUTHORIZED, "request is not authenticated")
	}

	return acc, nil
}

// SetTokenToCtx keeps the raw bearer token so outbound capture requests can
// forward the caller's credentials.
func SetTokenToCtx(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

func GetTokenFromCtx(ctx context.Context) (string, error) {
	token, ok := ctx.Value(tokenContextKey).(string)
	if !ok {
		return "", errors.New(http.StatusUnauthorized, status.UNAUTHORIZED, "request is not authenticated")
	}

	return token, nil
}

type Store interface {
	Save(ctx context.Context, tokenID string, acc Account, expiresIn time.Duration) error
	Get(ctx context.Context, tokenID string) (Account, error)
}

type redisSessionStore struct {
	logger *logrus.Logger
	client *goredis.Client
}

func NewRedisSessionStore(logger *logrus.Logger, client *goredis.Client) Store {
	return &redisSessionStore{
		logger: logger,
		client: client,
	}
}

func sessionKey(tokenID string) string {
	return fmt.Sprintf("ct-ticket:session:%s", tokenID)
}

// Save implements Store.
func (s *redisSessionStore) Save(ctx context.Context, tokenID string, acc Account, expiresIn time.Duration) error {
	buff, _ := json.Marshal(acc)

	if err := s.client.Set(ctx, sessionKey(tokenID), buff, expiresIn).Err(); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving session")
	}

	return nil
}

// Get implements Store.
func (s *redisSessionStore) Get(ctx context.Context, tokenID string) (Account, error) {
	buff, err := s.client.Get(ctx, sessionKey(tokenID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return Account{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "session is not found")
		}
		s.logger.WithContext(ctx).WithError(err).Error()
		return Account{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting session")
	}

	var acc Account
	if err := json.Unmarshal(buff, &acc); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error()
		return Account{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting session")
	}

	return acc, nil
}
