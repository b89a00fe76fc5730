package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/habitgrid/internal/auth"
	"github.com/dukerupert/habitgrid/internal/errors"
	"github.com/dukerupert/habitgrid/internal/model"
	"github.com/dukerupert/habitgrid/internal/schedule"
	"github.com/dukerupert/habitgrid/internal/store"
	"github.com/dukerupert/habitgrid/internal/validation"
	"github.com/dukerupert/habitgrid/internal/websocket"
)

const (
	defaultStreakDays = 40
	maxStreakDays     = 366
)

type HabitHandler struct {
	habitStore *store.HabitStore
	validator  *validation.Validator
	hub        *websocket.Hub
	loc        *time.Location
	now        func() time.Time
	logger     *slog.Logger
}

func NewHabitHandler(hs *store.HabitStore, v *validation.Validator, hub *websocket.Hub, loc *time.Location, logger *slog.Logger) *HabitHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &HabitHandler{
		habitStore: hs,
		validator:  v,
		hub:        hub,
		loc:        loc,
		now:        time.Now,
		logger:     logger,
	}
}

func (h *HabitHandler) broadcast(userID int64, action string, id int64, extra map[string]any) {
	if h.hub != nil {
		h.hub.BroadcastToUser(userID, websocket.NewMessage("habit", action, id, extra))
	}
}

// today returns midnight of the caller's current day.
func (h *HabitHandler) today(r *http.Request) (time.Time, error) {
	loc, err := requestLocation(r, h.loc)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.DateOnly(h.now().In(loc)), nil
}

// List handles GET /api/habits
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	habits, err := h.habitStore.List(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if habits == nil {
		habits = []model.Habit{}
	}
	writeJSON(w, http.StatusOK, habits)
}

// Get handles GET /api/habits/{id}
func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	habit, err := h.ownedHabit(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

type createHabitRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"required,max=2000"`
	Color       string          `json:"color" validate:"omitempty,hexcolor"`
	Frequency   model.Frequency `json:"frequency" validate:"omitempty,oneof=daily weekly monthly"`
	RepeatDays  []string        `json:"repeat_days" validate:"max=7,unique,dive,weekday"`
}

// Create handles POST /api/habits
func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req createHabitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := h.validator.Validate(req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.Color == "" {
		req.Color = model.Palette[0]
	}

	habit, err := h.habitStore.Create(userID, req.Title, req.Description, req.Color, req.Frequency, req.RepeatDays)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.broadcast(userID, "created", habit.ID, nil)
	writeJSON(w, http.StatusCreated, habit)
}

// Delete handles DELETE /api/habits/{id}. Completions and exclusions go with it.
func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	habit, err := h.ownedHabit(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.habitStore.Delete(habit.UserID, habit.ID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.broadcast(habit.UserID, "deleted", habit.ID, nil)
	w.WriteHeader(http.StatusNoContent)
}

type dateRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// Complete handles POST /api/habits/{id}/completions
func (h *HabitHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.markDay(w, r, "completed", h.habitStore.Complete)
}

// Exclude handles POST /api/habits/{id}/exclusions
func (h *HabitHandler) Exclude(w http.ResponseWriter, r *http.Request) {
	h.markDay(w, r, "excluded", h.habitStore.Exclude)
}

// markDay applies mark to the habit for the requested day, which defaults
// to the caller's today.
func (h *HabitHandler) markDay(w http.ResponseWriter, r *http.Request, action string, mark func(userID, habitID int64, date string) error) {
	habit, err := h.ownedHabit(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	// The body is optional; without one the day is today.
	var req dateRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	today, err := h.today(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	day, err := parseDay(req.Date, today)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	date := schedule.FormatDate(day)

	if err := mark(habit.UserID, habit.ID, date); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.broadcast(habit.UserID, action, habit.ID, map[string]any{"date": date})
	writeJSON(w, http.StatusOK, map[string]any{"habit_id": habit.ID, "date": date})
}

// Uncomplete handles DELETE /api/habits/{id}/completions/{date}
func (h *HabitHandler) Uncomplete(w http.ResponseWriter, r *http.Request) {
	habit, err := h.ownedHabit(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	day, err := schedule.ParseDate(r.PathValue("date"), h.loc)
	if err != nil {
		writeError(w, h.logger, errors.Validationf("date must be YYYY-MM-DD, got %q", r.PathValue("date")))
		return
	}
	date := schedule.FormatDate(day)

	if err := h.habitStore.Uncomplete(habit.UserID, habit.ID, date); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.broadcast(habit.UserID, "uncompleted", habit.ID, map[string]any{"date": date})
	w.WriteHeader(http.StatusNoContent)
}

// Day handles GET /api/day?date=YYYY-MM-DD
func (h *HabitHandler) Day(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	today, err := h.today(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	selected, err := parseDay(r.URL.Query().Get("date"), today)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	snap, err := h.habitStore.LoadDay(userID, schedule.FormatDate(selected))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, snap.Day(selected, today))
}

type streaksResponse struct {
	Window []string             `json:"window"`
	Habits []schedule.StreakRow `json:"habits"`
}

// Streaks handles GET /api/streaks?days=N
func (h *HabitHandler) Streaks(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	days := defaultStreakDays
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxStreakDays {
			writeError(w, h.logger, errors.Validationf("days must be between 1 and %d", maxStreakDays))
			return
		}
		days = n
	}

	today, err := h.today(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	window := schedule.TrailingWindow(today, days)
	snap, err := h.habitStore.LoadWindow(userID, window)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, streaksResponse{Window: window, Habits: snap.Streaks(window)})
}

func (h *HabitHandler) ownedHabit(r *http.Request) (*model.Habit, error) {
	id, err := parseIDParam(r)
	if err != nil {
		return nil, err
	}
	habit, err := h.habitStore.GetByID(auth.UserID(r.Context()), id)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, errors.NotFound("habit not found")
	}
	return habit, nil
}
