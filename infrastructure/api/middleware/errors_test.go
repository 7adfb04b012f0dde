package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scoutline/scoutline/internal/domain"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "validation", err: fmt.Errorf("%w: bad input", domain.ErrValidation), status: http.StatusBadRequest},
		{name: "not found", err: fmt.Errorf("%w: no such row", domain.ErrNotFound), status: http.StatusNotFound},
		{name: "conflict", err: fmt.Errorf("%w: already used", domain.ErrConflict), status: http.StatusConflict},
		{name: "dependency", err: fmt.Errorf("%w: upstream down", domain.ErrDependency), status: http.StatusBadGateway},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError},
		{name: "wrapped twice", err: fmt.Errorf("respond: %w", fmt.Errorf("%w: gone", domain.ErrConflict)), status: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			WriteError(w, req, tt.err, nil)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q, want application/json", ct)
			}

			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tt.err.Error() {
				t.Errorf("error = %q, want %q", body.Error, tt.err.Error())
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]string{"status": "ok"})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v, want status ok", body)
	}
}
