package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/habitgrid/internal/errors"
	"github.com/dukerupert/habitgrid/internal/schedule"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   errors.Code `json:"error"`
	Message string      `json:"message"`
	Details any         `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError replies with the domain error carried by err. Anything that
// is not a domain error is logged and reported as internal.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var de *errors.Error
	if !errors.As(err, &de) {
		de = errors.Wrap(err, errors.CodeInternal, "internal error")
	}
	status := de.HTTPStatus()
	if status >= 500 {
		logger.Error("request failed", "code", de.Code, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: de.Code, Message: de.Message, Details: de.Details})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Validation("invalid JSON")
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be absent,
// including chunked requests with nothing in them.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return errors.Validation("invalid JSON")
	}
	return nil
}

func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Validation("invalid id")
	}
	return id, nil
}

// requestLocation returns the caller's zone from the X-Timezone header or
// the tz query parameter, falling back to def.
func requestLocation(r *http.Request, def *time.Location) (*time.Location, error) {
	name := strings.TrimSpace(r.Header.Get("X-Timezone"))
	if name == "" {
		name = strings.TrimSpace(r.URL.Query().Get("tz"))
	}
	if name == "" {
		return def, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Validationf("unknown timezone %q", name)
	}
	return loc, nil
}

// parseDay parses s in loc, defaulting to today when s is empty.
func parseDay(s string, today time.Time) (time.Time, error) {
	if s == "" {
		return today, nil
	}
	d, err := schedule.ParseDate(s, today.Location())
	if err != nil {
		return time.Time{}, errors.Validationf("date must be YYYY-MM-DD, got %q", s)
	}
	return d, nil
}
