package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/blogem/audit-console/authenticator"
	"github.com/blogem/audit-console/config"
	"github.com/blogem/audit-console/controllers"
	"github.com/blogem/audit-console/database"
	"github.com/blogem/audit-console/logging"
	"github.com/blogem/audit-console/metrics"
	authmiddleware "github.com/blogem/audit-console/middleware"
	"github.com/blogem/audit-console/publisher"
	"github.com/blogem/audit-console/repositories"
	"github.com/blogem/audit-console/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Setup(cfg.Logging)

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.Config) error {
	// Initialize database
	if err := database.InitializeDatabase(cfg.Database.Path); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.CloseDB()

	// Initialize repositories
	repos := repositories.NewRepositories(database.GetDB())

	// Audit entries are also shipped to Kafka when a broker is configured
	var auditPublisher services.Publisher
	if cfg.Kafka.Enabled() {
		kafkaPublisher, err := publisher.NewKafkaPublisher(cfg.Kafka.BootstrapServers, cfg.Kafka.AuditTopic, services.RecordFromEntry)
		if err != nil {
			return fmt.Errorf("failed to create Kafka publisher: %w", err)
		}
		defer kafkaPublisher.Close()
		auditPublisher = kafkaPublisher
		log.WithField("topic", cfg.Kafka.AuditTopic).Info("Publishing audit entries to Kafka")
	}

	// Initialize services
	srvs := services.NewServices(repos, auditPublisher)

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs)

	// Operator login is optional; without it the console is open
	var auth authenticator.Provider
	if cfg.OIDC.Enabled() {
		provider, err := authenticator.NewOpenIDProvider(context.Background(), authenticator.OpenIDConfig{
			Domain:       cfg.OIDC.Domain,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			CallbackURL:  cfg.OIDC.CallbackURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize OIDC provider: %w", err)
		}
		auth = provider
	} else {
		log.Warn("OIDC_DOMAIN is not set; the console is running without login")
	}

	// Set up router
	r, err := setupRouter(cfg, ctrl, srvs, auth)
	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"port":     cfg.Server.Port,
			"database": cfg.Database.Path,
		}).Info("Audit console starting")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// setupRouter configures all routes. auth is nil when login is disabled.
func setupRouter(cfg *config.Config, ctrl *controllers.Controllers, srvs *services.Services, auth authenticator.Provider) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second)) // 60 second timeout for OAuth callbacks
	r.Use(middleware.Compress(5))
	r.Use(authmiddleware.Metrics)

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "audit_console_session",
		Secure:         cfg.Server.UseHTTPS, // Set to true when USE_HTTPS=true (production)
		Gclifetime:     3600,                // Session lifetime in seconds
		Maxlifetime:    3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)
	r.Use(authmiddleware.LoadUser)

	// PUBLIC ROUTES (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "audit-console"}`)
	})
	r.Handle("/metrics", metrics.Handler())

	if auth != nil {
		r.Get("/login", ctrl.Auth.Login(auth))
		r.Get("/callback", ctrl.Auth.Callback(auth))
		r.Get("/logout", ctrl.Auth.Logout)
	}

	// Machine-to-machine ingestion, guarded by a bearer token
	r.With(authmiddleware.RequireIngestToken(cfg.Server.IngestToken)).
		Post("/api/audit-logs", ctrl.Audit.APIIngest)

	// CONSOLE ROUTES (authentication required when login is enabled)
	r.Group(func(r chi.Router) {
		if auth != nil {
			r.Use(authmiddleware.RequireAuth)
		}
		r.Use(authmiddleware.AuditLogger(srvs.Audit))

		r.Get("/", ctrl.Dashboard.Index)

		r.Route("/audit", func(r chi.Router) {
			r.Get("/", ctrl.Audit.Index)
			r.Get("/{id}", ctrl.Audit.Show)
			r.Post("/purge", ctrl.Audit.Purge)
		})

		r.Get("/api/audit-logs", ctrl.Audit.APIList)
		r.Get("/api/audit-logs/{id}", ctrl.Audit.APIGet)
	})

	return r, nil
}
