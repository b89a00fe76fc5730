package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/habitgrid/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"not found", errors.NotFound("habit not found"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", errors.Validation("bad"), http.StatusBadRequest, "VALIDATION"},
		{"wrapped domain", fmt.Errorf("outer: %w", errors.AlreadyExists("dup")), http.StatusConflict, "ALREADY_EXISTS"},
		{"plain error", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, discardLogger(), tt.err)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantErr {
				t.Errorf("error = %v, want %v", body["error"], tt.wantErr)
			}
			if tt.wantCode == http.StatusInternalServerError && body["message"] != "internal error" {
				t.Errorf("internal message leaked: %v", body["message"])
			}
		})
	}
}

func TestRequestLocation(t *testing.T) {
	def := time.FixedZone("default", 0)

	req := httptest.NewRequest("GET", "/api/day", nil)
	if loc, err := requestLocation(req, def); err != nil || loc != def {
		t.Errorf("no zone: got %v, %v", loc, err)
	}

	req = httptest.NewRequest("GET", "/api/day?tz=Asia/Tokyo", nil)
	req.Header.Set("X-Timezone", "Europe/Berlin")
	loc, err := requestLocation(req, def)
	if err != nil {
		t.Fatalf("requestLocation: %v", err)
	}
	if loc.String() != "Europe/Berlin" {
		t.Errorf("header should win, got %s", loc)
	}

	req = httptest.NewRequest("GET", "/api/day?tz=Asia/Tokyo", nil)
	if loc, _ := requestLocation(req, def); loc.String() != "Asia/Tokyo" {
		t.Errorf("query zone = %s, want Asia/Tokyo", loc)
	}

	req = httptest.NewRequest("GET", "/api/day?tz=Mars/Olympus", nil)
	if _, err := requestLocation(req, def); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("err = %v, want validation", err)
	}
}

func TestParseDay(t *testing.T) {
	today := time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC)

	got, err := parseDay("", today)
	if err != nil || !got.Equal(today) {
		t.Errorf("empty: got %v, %v", got, err)
	}

	got, err = parseDay("2026-02-02", today)
	if err != nil || got.Weekday() != time.Monday {
		t.Errorf("explicit: got %v, %v", got, err)
	}

	for _, bad := range []string{"02/02/2026", "2026-02-30", "tomorrow"} {
		if _, err := parseDay(bad, today); !errors.Is(err, errors.ErrValidation) {
			t.Errorf("parseDay(%q) err = %v, want validation", bad, err)
		}
	}
}

func TestParseIDParam(t *testing.T) {
	for _, tt := range []struct {
		id   string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	} {
		req := httptest.NewRequest("GET", "/", nil)
		req.SetPathValue("id", tt.id)
		got, err := parseIDParam(req)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseIDParam(%q) = %d, %v", tt.id, got, err)
		}
	}
}

func TestDecodeOptionalJSON(t *testing.T) {
	type body struct {
		Date string `json:"date"`
	}

	for _, tt := range []struct {
		name    string
		body    io.Reader
		want    string
		wantErr bool
	}{
		{"no body", nil, "", false},
		{"chunked empty", io.MultiReader(), "", false},
		{"chunked with date", io.MultiReader(strings.NewReader(`{"date":"2026-02-03"}`)), "2026-02-03", false},
		{"sized with date", strings.NewReader(`{"date":"2026-02-03"}`), "2026-02-03", false},
		{"malformed", strings.NewReader(`{"date":`), "", true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", tt.body)
			var got body
			err := decodeOptionalJSON(httptest.NewRecorder(), req, &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got.Date != tt.want {
				t.Errorf("date = %q, want %q", got.Date, tt.want)
			}
		})
	}
}
