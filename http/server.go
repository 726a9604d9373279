package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"loan-emi/export"
	"loan-emi/service"
)

type Dependencies struct {
	Loans           *service.LoanService
	Recommendations *service.TermRecommendationService
	Money           *export.Money
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	RateCapacity    int
	RateRefill      time.Duration
	Dependencies    Dependencies
}

type Server struct {
	router  *chi.Mux
	logger  *zerolog.Logger
	server  *http.Server
	limiter *RateLimiter
	timeout time.Duration
}

func NewServer(logger zerolog.Logger, config Config) *Server {
	loanHandler := NewLoanHandler(config.Dependencies.Loans, config.Dependencies.Money)
	termHandler := NewTermRecommendationHandler(config.Dependencies.Recommendations)
	limiter := NewRateLimiter(config.RateCapacity, config.RateRefill)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/loan", func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter))
		r.Post("/calculate", loanHandler.CalculateLoan)
		r.Get("/schedule", loanHandler.GetSchedule)
		r.Post("/recommend-term", termHandler.RecommendTerm)
	})

	return &Server{
		router:  router,
		logger:  &logger,
		limiter: limiter,
		timeout: config.ShutdownTimeout,
		server: &http.Server{
			Addr:         config.Addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests for
// up to the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	defer s.limiter.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info().Str("addr", s.server.Addr).Msg("starting server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			return s.server.Close()
		}
		s.logger.Info().Msg("server exited")
		return nil
	})

	return g.Wait()
}

// Close stops background work without serving. Used when Run is never
// called.
func (s *Server) Close() {
	s.limiter.Stop()
}
