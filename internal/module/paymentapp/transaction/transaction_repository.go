package transaction

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/pkg/errors"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type TransactionRepository interface {
	Save(ctx context.Context, t Transaction, tx *sql.Tx) error
	FindManyByCustomer(ctx context.Context, customerUsername string, tx *sql.Tx) ([]Transaction, error)
	FindAll(ctx context.Context, tx *sql.Tx) ([]Transaction, error)
}

type sqlCommand interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type transactionRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewTransactionRepository(logger *logrus.Logger, db *sql.DB) TransactionRepository {
	return &transactionRepository{
		logger: logger,
		db:     db,
	}
}

// Save implements TransactionRepository. One transaction row per order id;
// a redelivered capture request does not produce a second row.
func (r *transactionRepository) Save(ctx context.Context, t Transaction, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		INSERT INTO payment_transaction
		(
			transaction_id, order_id, customer_username, amount,
			masked_card_number, card_holder, status, authorization_id, created_at
		)
		VALUES
		(
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (order_id) DO NOTHING
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving transaction's properties")
	}
	defer stmt.Close()

	var authorizationID sql.NullString
	if t.AuthorizationID != nil {
		authorizationID.String = *t.AuthorizationID
		authorizationID.Valid = true
	}

	_, err = stmt.ExecContext(ctx, t.TransactionID, t.OrderID, t.CustomerUsername, t.Amount, t.MaskedCardNumber, t.CardHolder, t.Status, authorizationID, t.CreatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving transaction's properties")
	}

	return nil
}

func (r *transactionRepository) findMany(ctx context.Context, cmd sqlCommand, query string, args ...interface{}) ([]Transaction, error) {
	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of transaction's properties")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of transaction's properties")
	}
	defer rows.Close()

	var data = make([]Transaction, 0)

	for rows.Next() {
		var t Transaction
		var authorizationID sql.NullString

		if err := rows.Scan(
			&t.TransactionID, &t.OrderID, &t.CustomerUsername, &t.Amount,
			&t.MaskedCardNumber, &t.CardHolder, &t.Status, &authorizationID, &t.CreatedAt,
		); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of transaction's properties")
		}

		if authorizationID.Valid {
			t.AuthorizationID = &authorizationID.String
		}

		data = append(data, t)
	}

	return data, nil
}

// FindManyByCustomer implements TransactionRepository.
func (r *transactionRepository) FindManyByCustomer(ctx context.Context, customerUsername string, tx *sql.Tx) ([]Transaction, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			transaction_id, order_id, customer_username, amount,
			masked_card_number, card_holder, status, authorization_id, created_at
		FROM payment_transaction
		WHERE
			customer_username = $1
		ORDER BY created_at ASC
	`

	return r.findMany(ctx, cmd, query, customerUsername)
}

// FindAll implements TransactionRepository.
func (r *transactionRepository) FindAll(ctx context.Context, tx *sql.Tx) ([]Transaction, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			transaction_id, order_id, customer_username, amount,
			masked_card_number, card_holder, status, authorization_id, created_at
		FROM payment_transaction
		ORDER BY created_at ASC
	`

	return r.findMany(ctx, cmd, query)
}
