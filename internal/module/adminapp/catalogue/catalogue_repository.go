package catalogue

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cityline-transit/ct-ticket/pkg/errors"
	"github.com/cityline-transit/ct-ticket/pkg/status"
)

type TicketCatalogueRepository interface {
	Save(ctx context.Context, tc TicketCatalogue, tx *sql.Tx) (int64, error)
	FindAll(ctx context.Context, tx *sql.Tx) ([]TicketCatalogue, error)
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

// Save implements TicketCatalogueRepository. It returns the generated id.
func (r *ticketCatalogueRepository) Save(ctx context.Context, tc TicketCatalogue, tx *sql.Tx) (int64, error) {
	var cmd sqlCommand = r.db

	if tx != nil {
		cmd = tx
	}

	query := `
		INSERT INTO ticket_catalogue
		(
			type, price, zones, min_age, max_age, created_at, updated_at
		)
		VALUES
		(
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING ticket_id
	`

	stmt, err := cmd.PrepareContext(ctx, query)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving ticket catalogue's properties")
	}
	defer stmt.Close()

	var minAge sql.NullInt64
	var maxAge sql.NullInt64

	if tc.MinAge != nil {
		minAge.Int64 = *tc.MinAge
		minAge.Valid = true
	}
	if tc.MaxAge != nil {
		maxAge.Int64 = *tc.MaxAge
		maxAge.Valid = true
	}

	row := stmt.QueryRowContext(ctx, tc.Type, tc.Price, tc.Zones, minAge, maxAge, tc.CreatedAt, tc.UpdatedAt)

	var ticketID int64
	if err := row.Scan(&ticketID); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error()
		return 0, errors.New(http.StatusInternalServerError, status.INTERNAL_SERVER_ERROR, "an error occurred while saving ticket catalogue's properties")
	}

	return ticketID, nil
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
