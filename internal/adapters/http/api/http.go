// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"

	service "github.com/okian/crewcast/internal/app"
	"github.com/okian/crewcast/internal/domain/feature"
	"github.com/okian/crewcast/internal/domain/runtime"
	"github.com/okian/crewcast/internal/domain/types"
	"github.com/okian/crewcast/pkg/logger"
)

// Default server limits.
const (
	defaultMaxUploadBytes = 10 << 20
	corsMaxAge            = 300
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ModelDependencies
	PredictDependencies
	BatchDependencies
}

// ModelDependencies loads and reports the model runtime.
type ModelDependencies interface {
	LoadModel(ctx context.Context, source string) (runtime.Status, error)
	ModelStatus() runtime.Status
	DefaultModelSource() string
}

// PredictDependencies predicts one manual submission.
type PredictDependencies interface {
	PredictManual(ctx context.Context, in feature.RawInput) (service.ManualResult, error)
}

// BatchDependencies predicts an uploaded file and exports results.
type BatchDependencies interface {
	PredictBatch(ctx context.Context, r io.Reader) (service.BatchResult, error)
	ExportCSV(w io.Writer, o types.Output) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	modelHandler   *ModelHandler
	predictHandler *PredictHandler
	batchHandler   *BatchHandler

	rateLimitPerMinute int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxUploadBytes caps the size of an uploaded batch file.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.batchHandler.maxUploadBytes = n
		}
	}
}

// WithRateLimit caps prediction requests per client IP and minute. Zero
// disables the limit.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		if perMinute >= 0 {
			s.rateLimitPerMinute = perMinute
		}
	}
}

// WithModelReload lets POST /model load sources other than the configured
// default. A non-empty prefixes list restricts them further.
func WithModelReload(allow bool, prefixes []string) Option {
	return func(s *Server) {
		s.modelHandler.allowReload = allow
		s.modelHandler.sourcePrefixes = prefixes
	}
}

// WithClock overrides the time source used for export file names.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.batchHandler.now = now
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		modelHandler:   NewModelHandler(deps),
		predictHandler: NewPredictHandler(deps),
		batchHandler:   NewBatchHandler(deps, defaultMaxUploadBytes),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/model", MetricsMiddleware(s.modelHandler.HandleGetModel, "model"))
	r.Post("/model", MetricsMiddleware(s.modelHandler.HandleLoadModel, "model"))

	r.Group(func(r chi.Router) {
		if s.rateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(s.rateLimitPerMinute, time.Minute))
		}
		r.Post("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
		r.Post("/predict/batch", MetricsMiddleware(s.batchHandler.HandlePredictBatch, "predict_batch"))
	})
}

// NewRouter returns a chi router carrying the process wide middleware:
// request ids, panic recovery and, when origins are given, CORS.
func NewRouter(corsOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogContext)
	r.Use(chimiddleware.Recoverer)
	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Accept"},
			ExposedHeaders: []string{"Content-Disposition"},
			MaxAge:         corsMaxAge,
		}))
	}
	return r
}

// requestLogContext tags every log record of a request with its request id.
func requestLogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chimiddleware.GetReqID(r.Context())
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := logger.ContextWith(r.Context(), logger.String("request_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
