package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/prepnest/prepnest-backend/internal/response"
)

func failureCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error == nil {
		t.Fatalf("expected an error body, got %s", w.Body.String())
	}
	return body.Error.Code
}

func TestFailTaxonomyUniqueViolation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	// A duplicate category id reaches the handler as a wrapped unique
	// violation from the repository.
	err := fmt.Errorf("insert category: %w", &pgconn.PgError{Code: "23505", ConstraintName: "categories_pkey"})
	failTaxonomy(c, err)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if code := failureCode(t, w); code != response.ErrConflict {
		t.Fatalf("expected %s, got %s", response.ErrConflict, code)
	}
}

func TestFailTaxonomyForeignKeyViolation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := fmt.Errorf("insert subcategory: %w", &pgconn.PgError{Code: "23503", ConstraintName: "subcategories_section_category_key_fkey"})
	failTaxonomy(c, err)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if code := failureCode(t, w); code != response.ErrDependencyExists {
		t.Fatalf("expected %s, got %s", response.ErrDependencyExists, code)
	}
}

func TestFailTaxonomyPlainErrorStays500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	failTaxonomy(c, errors.New("connection reset"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if code := failureCode(t, w); code != response.ErrInternal {
		t.Fatalf("expected %s, got %s", response.ErrInternal, code)
	}
}
