package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/habitgrid/internal/auth"
	"github.com/dukerupert/habitgrid/internal/errors"
	"github.com/dukerupert/habitgrid/internal/model"
	"github.com/dukerupert/habitgrid/internal/store"
	"github.com/dukerupert/habitgrid/internal/validation"
)

type AuthHandler struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	validator    *validation.Validator
	logger       *slog.Logger
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, v *validation.Validator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userStore:    us,
		sessionStore: ss,
		validator:    v,
		logger:       logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return req, err
	}
	req.Email = strings.TrimSpace(req.Email)
	return req, h.validator.Validate(req)
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCredentials(w, r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	existing, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if existing != nil {
		writeError(w, h.logger, errors.AlreadyExists("an account with that email already exists"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordLength) {
		writeError(w, h.logger, errors.Validation(err.Error()))
		return
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.userStore.Create(req.Email, hash)
	if errors.Is(err, store.ErrEmailTaken) {
		writeError(w, h.logger, errors.AlreadyExists("an account with that email already exists"))
		return
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.startSession(w, r, user, http.StatusCreated)
}

// Signin handles POST /api/auth/signin
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCredentials(w, r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if user == nil {
		writeError(w, h.logger, errors.InvalidCredentials("invalid email or password"))
		return
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if !ok {
		writeError(w, h.logger, errors.InvalidCredentials("invalid email or password"))
		return
	}

	h.startSession(w, r, user, http.StatusOK)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User, status int) {
	sess, err := h.sessionStore.Create(user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(store.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})

	h.logger.Info("session started", "user_id", user.ID)
	writeJSON(w, status, authResponse{User: user, Token: sess.Token})
}

// Signout handles POST /api/auth/signout
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	if id := auth.SessionID(r.Context()); id != 0 {
		if err := h.sessionStore.Delete(id); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userStore.GetByID(auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if user == nil {
		writeError(w, h.logger, errors.ErrUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
