package catalogue

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/pkg/errors"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type TicketCatalogueRepository interface {
	FindAll(ctx context.Context, tx *sql.Tx) ([]TicketCatalogue, error)
	FindByID(ctx context.Context, ID int64, tx *sql.Tx) (TicketCatalogue, error)
}

type sqlCommand interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type ticketCatalogueRepository struct {
	logger *logrus.Logger
	db     *sql.DB
}

func NewTicketCatalogueRepository(logger *logrus.Logger, db *sql.DB) TicketCatalogueRepository {
	return &ticketCatalogueRepository{
		logger: logger,
		db:     db,
	}
}

// FindAll implements TicketCatalogueRepository.
func (r *ticketCatalogueRepository) FindAll(ctx context.Context, tx *sql.Tx) ([]TicketCatalogue, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			ticket_id, type, price, zones, min_age, max_age, created_at, updated_at
		FROM ticket_catalogue
		ORDER BY ticket_id ASC
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket catalogue's properties")
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket catalogue's properties")
	}
	defer rows.Close()

	var data = make([]TicketCatalogue, 0)

	for rows.Next() {
		var tc TicketCatalogue
		var minAge sql.NullInt64
		var maxAge sql.NullInt64

		if err := rows.Scan(
			&tc.TicketID, &tc.Type, &tc.Price, &tc.Zones, &minAge, &maxAge, &tc.CreatedAt, &tc.UpdatedAt,
		); err != nil {
			r.logger.WithContext(ctx).WithError(err).Error()
			return nil, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting bunch of ticket catalogue's properties")
		}

		if minAge.Valid {
			tc.MinAge = &minAge.Int64
		}
		if maxAge.Valid {
			tc.MaxAge = &maxAge.Int64
		}

		data = append(data, tc)
	}

	return data, nil
}

// FindByID implements TicketCatalogueRepository. An unknown id surfaces as a
// bad request because the only caller references the id from purchase input.
func (r *ticketCatalogueRepository) FindByID(ctx context.Context, ID int64, tx *sql.Tx) (TicketCatalogue, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		SELECT
			ticket_id, type, price, zones, min_age, max_age, created_at, updated_at
		FROM ticket_catalogue
		WHERE
			ticket_id = $1
		LIMIT 1
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return TicketCatalogue{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting ticket catalogue's properties")
	}
	defer stmt.Close()

	row := stmt.QueryRowContext(ctx, ID)

	var data TicketCatalogue
	var minAge sql.NullInt64
	var maxAge sql.NullInt64

	err = row.Scan(
		&data.TicketID, &data.Type, &data.Price, &data.Zones, &minAge, &maxAge, &data.CreatedAt, &data.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return TicketCatalogue{}, errors.New(http.StatusBadRequest, status.BAD_REQUEST, fmt.Sprintf("ticket catalogue with id '%d' is not found", ID))
		}
		r.logger.WithContext(ctx).WithError(err).Error()
		return TicketCatalogue{}, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while getting ticket catalogue's properties")
	}

	if minAge.Valid {
		data.MinAge = &minAge.Int64
	}
	if maxAge.Valid {
		data.MaxAge = &maxAge.Int64
	}

	return data, nil
}
