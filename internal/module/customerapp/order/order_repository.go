package order

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/pkg/errors"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type OrderRepository interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
	CommitTx(ctx context.Context, tx *sql.Tx) error
	Rollback(ctx context.Context, tx *sql.Tx) error

	Save(ctx context.Context, o Order, tx *sql.Tx) error
	FindByID(ctx context.Context, ID string, tx *sql.Tx) (Order, error)
	FindManyByCustomer(ctx context.Context, customerUsername string, tx *sql.Tx) ([]Order, error)
	FindAll(ctx context.Context, tx *sql.Tx) ([]Order, error)
	UpdateStatus(ctx context.Context, ID string, newStatus string, tx *sql.Tx) (int64, error)
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

// BeginTx implements OrderRepository.
func (r *orderRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to begin transaction")
	}

	return tx, nil
}

// CommitTx implements OrderRepository.
func (r *orderRepository) CommitTx(ctx context.Context, tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to commit transaction")
	}

	return nil
}

// Rollback implements OrderRepository.
func (r *orderRepository) Rollback(ctx context.Context, tx *sql.Tx) error {
	if err := tx.Rollback(); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred trying to rollback transaction")
	}

	return nil
}

// Save implements OrderRepository.
func (r *orderRepository) Save(ctx context.Context, o Order, tx *sql.Tx) error {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		INSERT INTO ticket_order
		(
			order_id, ticket_catalogue_id, quantity,
			customer_username, status, created_at, updated_at
		)
		VALUES
		(
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving order's properties")
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, o.OrderID, o.TicketCatalogueID, o.Quantity, o.CustomerUsername, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving order's properties")
	}

	return nil
}

// FindByID implements OrderRepository.
func (r *orderRepository) FindByID(ctx context.Context, ID string, tx *sql.Tx) (Order, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			order_id, ticket_catalogue_id, quantity, customer_username, status, created_at, updated_at
		FROM ticket_order
		WHERE
			order_id = $1
		LIMIT 1
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return Order{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting order's properties")
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, ID)

	var data Order

	err = row.Scan(
		&data.OrderID, &data.TicketCatalogueID, &data.Quantity, &data.CustomerUsername, &data.Status, &data.CreatedAt, &data.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, errors.New(http.StatusNotFound, status.NOT_FOUND, fmt.Sprintf("order's properties with id '%s' is not found", ID))
		}
		r.logger.WithContext(ctx).WithError(err).Error()
		return Order{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting order's properties")
	}

	return data, nil
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

// FindManyByCustomer implements OrderRepository. Results keep insertion order.
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

// UpdateStatus implements OrderRepository. The update is conditioned on the
// order still being pending, so a duplicate payment result affects zero rows
// instead of overwriting a terminal status.
func (r *orderRepository) UpdateStatus(ctx context.Context, ID string, newStatus string, tx *sql.Tx) (int64, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		UPDATE ticket_order
		SET
			status = $1,
			updated_at = now()
		WHERE
			order_id = $2
		AND
			status = $3
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating order's status")
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, newStatus, ID, StatusPending)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating order's status")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while updating order's status")
	}

	return affected, nil
}
