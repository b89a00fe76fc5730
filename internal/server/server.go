package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/habitgrid/internal/backup"
	"github.com/dukerupert/habitgrid/internal/config"
	"github.com/dukerupert/habitgrid/internal/database"
	"github.com/dukerupert/habitgrid/internal/handler"
	"github.com/dukerupert/habitgrid/internal/middleware"
	"github.com/dukerupert/habitgrid/internal/push"
	"github.com/dukerupert/habitgrid/internal/store"
	"github.com/dukerupert/habitgrid/internal/validation"
	ws "github.com/dukerupert/habitgrid/internal/websocket"
)

// Sign-in and sign-up attempts allowed per client IP per minute.
const authAttemptsPerMinute = 10

type Server struct {
	db            *sql.DB
	cfg           *config.Config
	hub           *ws.Hub
	authH         *handler.AuthHandler
	habitH        *handler.HabitHandler
	pushH         *handler.PushHandler
	sessionStore  *store.SessionStore
	userStore     *store.UserStore
	pushStore     *store.PushStore
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	pushScheduler *push.Scheduler
	logger        *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	v := validation.New()

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	habitStore := store.NewHabitStore(db)
	pushSt := store.NewPushStore(db)

	backupLogger := logger.With("component", "backup")
	pushLogger := logger.With("component", "push")

	backupMgr := backup.NewManager(backup.ConfigFrom(cfg), db, store.NewBackupStore(db), backupLogger, func(s backup.Status) {
		backupLogger.Debug("backup status", "state", s.State, "in_progress", s.InProgress, "error", s.Error)
	})

	// Push notification service + scheduler
	var pushSvc *push.Service
	var pushSched *push.Scheduler
	if cfg.Push.Enabled() {
		pushSvc = push.NewService(cfg.Push.VAPIDPublicKey, cfg.Push.VAPIDPrivateKey, cfg.Push.Subscriber)
		pushSched = push.NewScheduler(pushSvc, pushSt, habitStore, cfg.Location, cfg.Push.ReminderHour, pushLogger)
	}

	return &Server{
		db:            db,
		cfg:           cfg,
		hub:           hub,
		authH:         handler.NewAuthHandler(userStore, sessionStore, v, logger.With("component", "auth")),
		habitH:        handler.NewHabitHandler(habitStore, v, hub, cfg.Location, logger.With("component", "habit")),
		pushH:         handler.NewPushHandler(pushSt, pushSvc, v, logger.With("component", "push_handler")),
		sessionStore:  sessionStore,
		userStore:     userStore,
		pushStore:     pushSt,
		rateLimiter:   middleware.NewRateLimiter(authAttemptsPerMinute, time.Minute),
		backupManager: backupMgr,
		pushScheduler: pushSched,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// PushScheduler returns the reminder scheduler, or nil when push is not configured.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

// PushStore returns the push store for cleanup tasks.
func (s *Server) PushStore() *store.PushStore {
	return s.pushStore
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/signup", s.rateLimitedHandler(s.authH.Signup))
	outerMux.HandleFunc("POST /api/auth/signin", s.rateLimitedHandler(s.authH.Signin))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	var h http.Handler = outerMux
	h = middleware.CORS(s.cfg.Server.CORSOrigins)(h)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := s.db.PingContext(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	version, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		s.logger.Error("health: schema version", "error", err)
	}
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"schema":  version,
		"clients": s.hub.ClientCount(),
		"backup":  s.backupManager.Status().State,
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	return middleware.RateLimit(s.rateLimiter, middleware.RealIP)(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/signout", s.authH.Signout)
	mux.HandleFunc("GET /api/me", s.authH.Me)

	// Habit catalog
	mux.HandleFunc("GET /api/habits", s.habitH.List)
	mux.HandleFunc("POST /api/habits", s.habitH.Create)
	mux.HandleFunc("GET /api/habits/{id}", s.habitH.Get)
	mux.HandleFunc("DELETE /api/habits/{id}", s.habitH.Delete)

	// Per-day marks
	mux.HandleFunc("POST /api/habits/{id}/exclusions", s.habitH.Exclude)
	mux.HandleFunc("POST /api/habits/{id}/completions", s.habitH.Complete)
	mux.HandleFunc("DELETE /api/habits/{id}/completions/{date}", s.habitH.Uncomplete)

	// Derived views
	mux.HandleFunc("GET /api/day", s.habitH.Day)
	mux.HandleFunc("GET /api/streaks", s.habitH.Streaks)

	// Push notification API routes
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	mux.HandleFunc("GET /api/push/preferences", s.pushH.GetPreferences)
	mux.HandleFunc("PUT /api/push/preferences", s.pushH.UpdatePreferences)
	mux.HandleFunc("POST /api/push/test", s.pushH.TestNotification)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.cfg.Server.CORSOrigins, s.logger.With("component", "websocket")))
}
