package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/absurd-industries/guild/internal/auth"
	"github.com/absurd-industries/guild/internal/cache"
	"github.com/absurd-industries/guild/internal/config"
	"github.com/absurd-industries/guild/internal/email"
	"github.com/absurd-industries/guild/internal/handler"
	"github.com/absurd-industries/guild/internal/middleware"
	"github.com/absurd-industries/guild/internal/store"
	"github.com/absurd-industries/guild/internal/upload"
	ws "github.com/absurd-industries/guild/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	authService *auth.Service
	authH       *handler.AuthHandler
	homeH       *handler.HomeHandler
	makerH      *handler.MakerHandler
	profileH    *handler.ProfileHandler
	productH    *handler.ProductHandler
	campaignH   *handler.CampaignHandler
	uploadH     *handler.UploadHandler
	sessions    *store.SessionStore
	magicLinks  *store.MagicLinkStore
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, sessionCache cache.SessionCache, mailer email.Mailer, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	magicLinkStore := store.NewMagicLinkStore(db)
	sessionStore := store.NewSessionStore(db, sessionCache, userStore, logger.With("component", "session"))
	productStore := store.NewProductStore(db)
	campaignStore := store.NewCampaignStore(db)
	backingStore := store.NewBackingStore(db)
	linkStore := store.NewProfileLinkStore(db)

	authService := auth.NewService(userStore, magicLinkStore, sessionStore, mailer, cfg.BaseURL, logger.With("component", "auth"))

	uploader := upload.New(upload.Config{
		Endpoint:  cfg.S3Endpoint,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})

	return &Server{
		db:          db,
		hub:         hub,
		authService: authService,
		authH:       handler.NewAuthHandler(authService, logger.With("component", "auth_handler")),
		homeH:       handler.NewHomeHandler(campaignStore, userStore, logger.With("component", "home")),
		makerH:      handler.NewMakerHandler(userStore, productStore, campaignStore, linkStore, logger.With("component", "maker")),
		profileH:    handler.NewProfileHandler(userStore, productStore, campaignStore, linkStore, logger.With("component", "profile")),
		productH:    handler.NewProductHandler(productStore, logger.With("component", "product")),
		campaignH:   handler.NewCampaignHandler(campaignStore, backingStore, productStore, userStore, hub, logger.With("component", "campaign")),
		uploadH:     handler.NewUploadHandler(uploader, logger.With("component", "upload")),
		sessions:    sessionStore,
		magicLinks:  magicLinkStore,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessions
}

// MagicLinkStore returns the magic link store for cleanup tasks.
func (s *Server) MagicLinkStore() *store.MagicLinkStore {
	return s.magicLinks
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()
	optionalAuth := middleware.OptionalAuth(s.authService)
	requireAuth := middleware.RequireAuth(s.authService)

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /auth/login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /auth/verify", s.authH.Verify)
	outerMux.HandleFunc("POST /auth/logout", s.authH.Logout)
	outerMux.Handle("GET /{$}", optionalAuth(http.HandlerFunc(s.homeH.Home)))
	outerMux.Handle("GET /m/{makerName}", optionalAuth(http.HandlerFunc(s.makerH.Show)))
	outerMux.Handle("GET /campaigns", optionalAuth(http.HandlerFunc(s.campaignH.List)))
	// Registered here because "GET /campaigns/{slug}" would otherwise
	// swallow /campaigns/new with slug "new".
	outerMux.Handle("GET /campaigns/new", requireAuth(http.HandlerFunc(s.campaignH.NewPage)))
	outerMux.Handle("GET /campaigns/{slug}", optionalAuth(http.HandlerFunc(s.campaignH.Show)))
	outerMux.HandleFunc("GET /ws", ws.Handle(s.hub, s.logger.With("component", "websocket")))
	outerMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	outerMux.HandleFunc("GET /health", s.homeH.Health)

	// Protected routes wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	outerMux.Handle("/", requireAuth(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Profile routes
	mux.HandleFunc("GET /profile", s.profileH.Dashboard)
	mux.HandleFunc("POST /profile", s.profileH.Update)
	mux.HandleFunc("GET /profile/setup", s.profileH.SetupPage)
	mux.HandleFunc("POST /profile/setup", s.profileH.Setup)
	mux.HandleFunc("POST /profile/links", s.profileH.AddLink)
	mux.HandleFunc("POST /profile/links/{id}/delete", s.profileH.DeleteLink)

	// Product routes
	mux.HandleFunc("GET /profile/products", s.productH.List)
	mux.HandleFunc("GET /profile/products/new", s.productH.NewPage)
	mux.HandleFunc("POST /profile/products", s.productH.Create)
	mux.HandleFunc("GET /profile/products/{id}/edit", s.productH.EditPage)
	mux.HandleFunc("POST /profile/products/{id}", s.productH.Update)
	mux.HandleFunc("POST /profile/products/{id}/delete", s.productH.Delete)

	// Campaign management routes
	mux.HandleFunc("POST /campaigns", s.campaignH.Create)
	mux.HandleFunc("GET /campaigns/{id}/edit", s.campaignH.EditPage)
	mux.HandleFunc("POST /campaigns/{id}", s.campaignH.Update)
	mux.HandleFunc("POST /campaigns/{id}/status", s.campaignH.UpdateStatus)

	// Backing routes
	mux.HandleFunc("GET /campaigns/{slug}/back", s.campaignH.BackPage)
	mux.HandleFunc("POST /campaigns/{slug}/back", s.campaignH.Back)

	// Upload route
	mux.HandleFunc("POST /upload/image", s.uploadH.Image)
}
