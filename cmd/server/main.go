// Package main provides a local HTTP server for development and testing.
// It serves the same handlers as the Lambda functions plus a direct CSV
// batch endpoint.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"nomad-visa-engine/internal/config"
	"nomad-visa-engine/internal/handlers"
	"nomad-visa-engine/internal/services/recommender"
	"nomad-visa-engine/internal/services/ses"
	"nomad-visa-engine/internal/utils"
)

// Server holds all dependencies
type Server struct {
	svc       *recommender.Service
	health    *handlers.HealthHandler
	recommend *handlers.RecommendHandler
	countries *handlers.CountriesHandler
	email     *handlers.EmailReportHandler
	limiter   *RateLimiter
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()
	logger := utils.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := recommender.Bootstrap(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to start recommender", zap.Error(err))
	}
	defer rt.Close()

	server := NewServer(rt)

	// SES is optional locally; without a sender the email route answers 503.
	mailer, err := ses.NewService(ctx, cfg)
	if err != nil {
		logger.Warn("Email reports disabled", zap.Error(err))
	} else {
		server.email = handlers.NewEmailReportHandler(rt.Service, mailer)
	}

	limiter := NewRateLimiter(30, time.Minute, 5)
	defer limiter.Stop()
	server.limiter = limiter

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           c.Handler(server.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.AdvisorTimeout + 15*time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("Nomad Visa Engine API server listening",
		zap.String("addr", addr),
		zap.Int("countries", rt.Service.Catalog().Len()),
		zap.Bool("advisor", rt.Service.AdvisorEnabled()),
	)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// NewServer wires the handlers around a bootstrapped runtime.
func NewServer(rt *recommender.Runtime) *Server {
	var db handlers.Pinger
	if rt.DB != nil {
		db = rt.DB
	}

	return &Server{
		svc:       rt.Service,
		health:    handlers.NewHealthHandler(db, rt.Service.Catalog().Len(), rt.Service.AdvisorEnabled()),
		recommend: handlers.NewRecommendHandler(rt.Service),
		countries: handlers.NewCountriesHandler(rt.Service.Catalog()),
	}
}

// Routes builds the request multiplexer.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", adaptLambda(s.health.Handle))
	mux.HandleFunc("/api/health", adaptLambda(s.health.Handle))

	mux.HandleFunc("/api/countries", adaptLambda(s.countries.Handle))

	mux.HandleFunc("/api/recommend", s.rateLimited(adaptLambda(s.recommend.Handle)))
	mux.HandleFunc("/api/recommend/batch", s.rateLimited(s.batchHandler))
	mux.HandleFunc("/api/recommend/email", s.rateLimited(s.emailHandler))

	return mux
}

func (s *Server) emailHandler(w http.ResponseWriter, r *http.Request) {
	if s.email == nil {
		writeJSON(w, http.StatusServiceUnavailable, handlers.Response{
			Success: false,
			Error:   "Email reports are not configured",
		})
		return
	}
	adaptLambda(s.email.Handle)(w, r)
}
