package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/alfagnish/exchange-api/internal/config"
	"github.com/alfagnish/exchange-api/internal/events"
	"github.com/alfagnish/exchange-api/internal/handlers"
	"github.com/alfagnish/exchange-api/internal/metrics"
	"github.com/alfagnish/exchange-api/internal/store"
	"github.com/alfagnish/exchange-api/internal/validation"
)

// Options are the process-owned collaborators the router is built from.
// Metrics may be nil, in which case /metrics is not served.
type Options struct {
	Config  *config.Config
	Logger  *zap.Logger
	Stores  *store.Set
	Hub     *events.Hub
	Metrics *metrics.Collector
}

// New creates a fully-configured chi router with all route groups,
// middleware, and handlers wired together.
func New(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// ── Middleware ───────────────────────────────────────────
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.Config.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// ── Handlers ────────────────────────────────────────────
	deps := handlers.Deps{
		Validator: validation.New(),
		Hub:       opts.Hub,
		Metrics:   opts.Metrics,
		Logger:    logger,
	}
	systemH := handlers.NewSystemHandler(logger)
	personsH := handlers.NewPersonsHandler(opts.Stores.Persons, deps)
	addressesH := handlers.NewAddressesHandler(opts.Stores.Addresses, deps)
	conversionsH := handlers.NewConversionsHandler(opts.Stores.Conversions, deps)
	destinationsH := handlers.NewDestinationsHandler(opts.Stores.Destinations, deps)

	// ── Route groups ────────────────────────────────────────
	r.Group(systemH.Routes)
	r.Route("/persons", personsH.Routes)
	r.Route("/addresses", addressesH.Routes)
	r.Route("/conversions", conversionsH.Routes)
	r.Route("/destinations", destinationsH.Routes)

	if opts.Hub != nil {
		r.Route("/events", handlers.NewEventsHandler(opts.Hub, logger).Routes)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	return r
}

// requestLogger logs each HTTP request with method, path, status code, and
// duration.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
