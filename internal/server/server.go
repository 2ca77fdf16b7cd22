package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/travel-web/apiserver/config"
	"github.com/travel-web/apiserver/internal/db"
	"github.com/travel-web/apiserver/internal/handlers"
	"github.com/travel-web/apiserver/internal/mail"
	"github.com/travel-web/apiserver/internal/services"
	"github.com/travel-web/apiserver/internal/storage"
	"github.com/travel-web/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	mailer     mail.Sender
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	mailer, err := newMailer(ctx, cfg.Mail)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	images, err := storage.NewImages(ctx, cfg.Storage)
	if err != nil {
		_ = mailer.Close()
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	tourRepo := store.NewTourRepository(dbConn)
	reservationRepo := store.NewReservationRepository(dbConn)
	sessionRepo := store.NewSessionRepository(dbConn)

	userService := services.NewUserService(userRepo)
	sessionService := services.NewSessionService(sessionRepo, userRepo, cfg.Session.TTL)
	catalogService := services.NewCatalogService(tourRepo)
	reservationService := services.NewReservationService(reservationRepo, tourRepo, mailer, cfg.Mail.Sender)

	authHandler := handlers.NewAuthHandler(userService, sessionService, mailer, cfg.Mail.Sender, cfg.Session.CookieName, jwtSecret)
	pageHandler := handlers.NewPageHandler(catalogService, userService)
	tourHandler := handlers.NewTourHandler(catalogService, images)
	userHandler := handlers.NewUserHandler(userService, images)
	reservationHandler := handlers.NewReservationHandler(reservationService, catalogService)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Mount("/", handlers.Router(authHandler, pageHandler, tourHandler, userHandler, reservationHandler))

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		mailer:     mailer,
	}, nil
}

func newMailer(ctx context.Context, cfg config.MailConfig) (mail.Sender, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "log":
		return mail.NewLogSender(), nil
	case "rabbitmq":
		broker, err := mail.NewRabbitMQBroker(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mail.NewQueueSender(broker, cfg.Channel), nil
	case "pubsub":
		broker, err := mail.NewPubSubBroker(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mail.NewQueueSender(broker, cfg.Channel), nil
	default:
		return nil, fmt.Errorf("unknown mail backend %q", cfg.Backend)
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.mailer != nil {
		_ = s.mailer.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
