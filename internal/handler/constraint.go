package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prepnest/prepnest-backend/internal/response"
)

// failConstraint translates Postgres constraint violations that slip past
// the service-level checks into 409 responses. Unique violations surface as
// CONFLICT, foreign-key violations as DEPENDENCY_EXISTS. Returns false when
// err is not a constraint violation so the caller can fall through to its
// own default.
func failConstraint(c *gin.Context, err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "23505":
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case "23503":
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	default:
		return false
	}
	return true
}
