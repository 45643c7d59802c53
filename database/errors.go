package database

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/godamri/helix-api/http/response"
)

// MapError translates driver errors into errors the exception filter can render.
// The driver error is kept as the cause.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return response.Wrap(http.StatusNotFound, "Record not found", err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return response.Wrap(http.StatusServiceUnavailable, "Database timeout", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return response.Wrap(http.StatusConflict, "Record already exists", err)
		case "23503": // foreign_key_violation
			return response.Wrap(http.StatusConflict, "Referenced record not found", err)
		case "23514": // check_violation
			return response.Wrap(http.StatusBadRequest, pgErr.Message, err)
		case "40001": // serialization_failure
			return response.Wrap(http.StatusConflict, "Concurrent update, retry the request", err)
		case "57014": // query_canceled
			return response.Wrap(http.StatusServiceUnavailable, "Database timeout", err)
		}
	}

	return response.Wrap(http.StatusInternalServerError, "Internal server error", err)
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}
