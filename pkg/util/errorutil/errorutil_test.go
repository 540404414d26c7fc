package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToAppErrorPassThrough(t *testing.T) {
	original := NewConflict("USER_ALREADY_ONBOARDED", "already onboarded")
	wrapped := fmt.Errorf("handler: %w", original)

	got := ToAppError(wrapped)
	if got != original {
		t.Error("expected the wrapped AppError back")
	}
	if got.HTTPStatus != http.StatusConflict || !got.Operational {
		t.Errorf("unexpected AppError: %+v", got)
	}
}

func TestToAppErrorNoRows(t *testing.T) {
	got := ToAppError(fmt.Errorf("query: %w", pgx.ErrNoRows))
	if got.Code != "NOT_FOUND" || got.HTTPStatus != http.StatusNotFound {
		t.Errorf("unexpected AppError: %+v", got)
	}
}

func TestToAppErrorUnknown(t *testing.T) {
	cause := errors.New("boom")
	got := ToAppError(cause)
	if got.Code != "INTERNAL_ERROR" || got.Operational {
		t.Errorf("unexpected AppError: %+v", got)
	}
	if !errors.Is(got, cause) {
		t.Error("expected cause to stay unwrappable")
	}
}

func TestToAppErrorNil(t *testing.T) {
	if ToAppError(nil) != nil {
		t.Error("expected nil for nil error")
	}
}
