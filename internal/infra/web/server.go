package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"realty-subscription/internal/config"
	"realty-subscription/internal/infra/metrics"
	red "realty-subscription/internal/infra/redis"
	"realty-subscription/internal/usecase"
)

// Server wires the subscription lifecycle use cases to the REST surface.
type Server struct {
	verifyUC     usecase.VerificationUseCase
	renewalUC    usecase.RenewalUseCase
	expiryUC     usecase.ExpiryUseCase
	commissionUC usecase.CommissionUseCase
	auth         *AuthManager
	limiter      *red.RateLimiter // optional
	limitPerMin  int
	httpServer   *http.Server
	log          *zerolog.Logger
}

func NewServer(
	cfg *config.Config,
	verifyUC usecase.VerificationUseCase,
	renewalUC usecase.RenewalUseCase,
	expiryUC usecase.ExpiryUseCase,
	commissionUC usecase.CommissionUseCase,
	auth *AuthManager,
	limiter *red.RateLimiter,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	s := &Server{
		verifyUC:     verifyUC,
		renewalUC:    renewalUC,
		expiryUC:     expiryUC,
		commissionUC: commissionUC,
		auth:         auth,
		limiter:      limiter,
		limitPerMin:  cfg.Server.RateLimitPerMin,
		log:          &l,
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Routes builds the chi router. Exposed separately so handler tests can mount
// it on httptest servers.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/payments", func(r chi.Router) {
			r.With(s.rateLimit).Post("/", s.handleSubmitPayment)

			r.Group(func(r chi.Router) {
				r.Use(s.requireRole(RoleAdmin))
				r.Get("/pending", s.handleListPending)
				r.Get("/failed", s.handleListFailed)
				r.Get("/subscriptions/expired", s.handleListExpired)
				r.With(s.rateLimit).Put("/{id}/verify", s.handleVerify)
				r.With(s.rateLimit).Put("/{id}/fail", s.handleMarkFailed)
				r.With(s.rateLimit).Post("/subscriptions/{subscriberID}/renew", s.handleRenew)
			})
		})

		r.Get("/subscription/status", s.handleSubscriptionStatus)

		r.Route("/marketing-executive", func(r chi.Router) {
			r.Use(s.requireRole(RoleMarketing))
			r.Get("/referred-agents", s.handleReferredAgents)
			r.Get("/referred-providers", s.handleReferredProviders)
			r.Get("/earnings", s.handleEarnings)
		})

		r.With(s.requireRole(RoleAdmin)).Post("/referrals", s.handleRecordReferral)
	})

	return r
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// requestLogger emits one line per request and feeds the route counter.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		metrics.IncHTTPRequest(route, strconv.Itoa(ww.Status()/100)+"xx")
		s.log.Info().
			Str("method", r.Method).
			Str("route", route).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// rateLimit applies a fixed window per authenticated subject to mutating
// endpoints. Without Redis it degrades to a no-op rather than blocking.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil {
			subject := r.RemoteAddr
			if sess, ok := SessionFrom(r.Context()); ok {
				subject = sess.SubscriberID
			}
			key := red.SubjectKey(subject, chi.RouteContext(r.Context()).RoutePattern())
			ok, err := s.limiter.Allow(r.Context(), key, s.limitPerMin, time.Minute)
			if err == nil && !ok {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
