package handler

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/dukerupert/habitgrid/internal/auth"
	"github.com/dukerupert/habitgrid/internal/errors"
	"github.com/dukerupert/habitgrid/internal/model"
	"github.com/dukerupert/habitgrid/internal/push"
	"github.com/dukerupert/habitgrid/internal/store"
	"github.com/dukerupert/habitgrid/internal/validation"
)

type PushHandler struct {
	pushStore *store.PushStore
	service   *push.Service
	validator *validation.Validator
	logger    *slog.Logger
}

// NewPushHandler creates the push API. svc may be nil when VAPID keys are
// not configured; the vapid-key endpoint then reports unavailable.
func NewPushHandler(ps *store.PushStore, svc *push.Service, v *validation.Validator, logger *slog.Logger) *PushHandler {
	return &PushHandler{pushStore: ps, service: svc, validator: v, logger: logger}
}

type subscribeRequest struct {
	Endpoint   string `json:"endpoint" validate:"required,url"`
	P256dh     string `json:"p256dh" validate:"required"`
	Auth       string `json:"auth" validate:"required"`
	DeviceName string `json:"device_name" validate:"max=100"`
}

// Subscribe handles POST /api/push/subscribe
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req subscribeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	sub, err := h.pushStore.CreateSubscription(userID, req.Endpoint, req.P256dh, req.Auth, req.DeviceName)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// Unsubscribe handles DELETE /api/push/subscriptions/{id}
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	sub, err := h.pushStore.GetByID(userID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if sub == nil {
		writeError(w, h.logger, errors.NotFound("subscription not found"))
		return
	}

	if err := h.pushStore.DeleteSubscription(userID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSubscriptions handles GET /api/push/subscriptions
func (h *PushHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.pushStore.ListByUser(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if subs == nil {
		subs = []model.PushSubscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// GetVAPIDKey handles GET /api/push/vapid-key
func (h *PushHandler) GetVAPIDKey(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeError(w, h.logger, errors.Unavailable("push notifications are not configured"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"public_key": h.service.VAPIDPublicKey()})
}

type preferenceView struct {
	Type    string `json:"type" validate:"required"`
	Enabled bool   `json:"enabled"`
}

// preferences lists every notification type, filling in the enabled
// default for types without a stored row.
func (h *PushHandler) preferences(userID int64) ([]preferenceView, error) {
	stored, err := h.pushStore.GetPreferences(userID)
	if err != nil {
		return nil, err
	}
	out := make([]preferenceView, 0, len(model.NotificationTypes))
	for _, t := range model.NotificationTypes {
		view := preferenceView{Type: t, Enabled: true}
		for _, p := range stored {
			if p.NotificationType == t {
				view.Enabled = p.Enabled
			}
		}
		out = append(out, view)
	}
	return out, nil
}

// GetPreferences handles GET /api/push/preferences
func (h *PushHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.preferences(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

type updatePreferencesRequest struct {
	Preferences []preferenceView `json:"preferences" validate:"required,dive"`
}

// UpdatePreferences handles PUT /api/push/preferences
func (h *PushHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req updatePreferencesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	for _, p := range req.Preferences {
		if !slices.Contains(model.NotificationTypes, p.Type) {
			writeError(w, h.logger, errors.Validationf("unknown notification type %q", p.Type))
			return
		}
	}
	for _, p := range req.Preferences {
		if err := h.pushStore.SetPreference(userID, p.Type, p.Enabled); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}

	prefs, err := h.preferences(userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// TestNotification handles POST /api/push/test
func (h *PushHandler) TestNotification(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if h.service == nil {
		writeError(w, h.logger, errors.Unavailable("push notifications are not configured"))
		return
	}

	subs, err := h.pushStore.ListByUser(userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	payload := push.Payload{
		Title: "Test Notification",
		Body:  "Push notifications are working!",
		URL:   "/",
		Tag:   "test",
	}

	sent := 0
	for _, sub := range subs {
		if err := h.service.Send(&sub, payload); err != nil {
			if errors.Is(err, push.ErrExpired) {
				h.pushStore.DeleteByEndpoint(sub.Endpoint)
				continue
			}
			h.logger.Warn("test push send", "subscription_id", sub.ID, "error", err)
			continue
		}
		sent++
	}

	writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}
