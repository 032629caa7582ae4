// Package respond holds the request and response plumbing shared by the
// sandbox handlers.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/MrJamesThe3rd/cajero/internal/sandbox"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes {"message": msg}, the shape the client reads messages from.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Fail writes err with the status its kind maps to.
func Fail(w http.ResponseWriter, err error) {
	msg := "Error interno"

	var sbErr *sandbox.Error
	if errors.As(err, &sbErr) {
		msg = sbErr.Message
	}

	switch {
	case errors.Is(err, sandbox.ErrNotFound):
		Error(w, http.StatusNotFound, msg)
	case errors.Is(err, sandbox.ErrConflict):
		Error(w, http.StatusConflict, msg)
	case errors.Is(err, sandbox.ErrInvalid):
		Error(w, http.StatusUnprocessableEntity, msg)
	case errors.Is(err, sandbox.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, msg)
	default:
		slog.Error("unhandled sandbox error", "error", err)
		Error(w, http.StatusInternalServerError, msg)
	}
}

// Decode reads a JSON body into v, answering 400 itself on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "JSON inválido: "+err.Error())
		return false
	}

	return true
}

// PageParams reads page and limit, defaulting to 1 and 20.
func PageParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	return page, limit
}

// DateParam reads a YYYY-MM-DD query parameter. Missing or malformed dates
// are nil.
func DateParam(r *http.Request, key string) *time.Time {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}

	return new(t)
}
