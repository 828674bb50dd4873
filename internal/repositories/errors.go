package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"tta-backend/internal/apperrors"
)

var errNoRows = pgx.ErrNoRows

// translateErr maps pgx errors onto the shared error taxonomy so the
// service layer never inspects driver errors directly.
func translateErr(err error, kind string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound(kind)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperrors.Conflict(kind + " already exists")
	}
	return err
}
