package order

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/pkg/errors"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type OrderRepository interface {
	FindAll(ctx context.Context, tx *sql.Tx) ([]Order, error)
	FindManyByCustomer(ctx context.Context, customerUsername string, tx *sql.Tx) ([]Order, error)
}

type sqlCommand interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type orderRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewOrderRepository(logger *logrus.Logger, db *sql.DB) OrderRepository {
	return &orderRepository{
		logger: logger,
		db:     db,
	}
}

func (r *orderRepository) findMany(ctx context.Context, cmd sqlCommand, query string, args ...interface{}) ([]Order, error) {
	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of order's properties")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of order's properties")
	}
	defer rows.Close()

	var data = make([]Order, 0)

	for rows.Next() {
		var o Order

		if err := rows.Scan(
			&o.OrderID, &o.TicketCatalogueID, &o.Quantity, &o.CustomerUsername, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of order's properties")
		}

		data = append(data, o)
	}

	return data, nil
}

// FindAll implements OrderRepository.
func (r *orderRepository) FindAll(ctx context.Context, tx *sql.Tx) ([]Order, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			order_id, ticket_catalogue_id, quantity, customer_username, status, created_at, updated_at
		FROM ticket_order
		ORDER BY created_at ASC
	`

	return r.findMany(ctx, cmd, query)
}

// FindManyByCustomer implements OrderRepository.
func (r *orderRepository) FindManyByCustomer(ctx context.Context, customerUsername string, tx *sql.Tx) ([]Order, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			order_id, ticket_catalogue_id, quantity, customer_username, status, created_at, updated_at
		FROM ticket_order
		WHERE
			customer_username = $1
		ORDER BY created_at ASC
	`

	return r.findMany(ctx, cmd, query, customerUsername)
}
