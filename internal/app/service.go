// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the terminal front-end.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/crewcast/internal/adapters/artifact"
	"github.com/okian/crewcast/internal/adapters/csvio"
	"github.com/okian/crewcast/internal/adapters/remote"
	"github.com/okian/crewcast/internal/domain/feature"
	"github.com/okian/crewcast/internal/domain/predict"
	"github.com/okian/crewcast/internal/domain/runtime"
	"github.com/okian/crewcast/internal/domain/types"
	"github.com/okian/crewcast/pkg/logger"
	"github.com/okian/crewcast/pkg/metrics"
)

// Prediction modes used in logs and metrics.
const (
	ModeManual = "manual"
	ModeBatch  = "batch"
)

// Error kinds reported by Kind.
const (
	KindInput    = "input"
	KindFile     = "file"
	KindModel    = "model"
	KindInternal = "internal"
)

// Kind classifies err into one of the domain error kinds.
func Kind(err error) string {
	switch {
	case errors.Is(err, feature.ErrInput):
		return KindInput
	case errors.Is(err, csvio.ErrFile):
		return KindFile
	case errors.Is(err, predict.ErrModel), errors.Is(err, runtime.ErrLoad):
		return KindModel
	default:
		return KindInternal
	}
}

// ManualResult is the outcome of one manual prediction.
type ManualResult struct {
	Row    feature.Row
	Output types.Output
}

// PreviewRows is how many input rows a batch result echoes back.
const PreviewRows = 5

// BatchResult is the outcome of one batch prediction. Preview holds the
// first input rows as the runtime saw them, after identifier columns were
// dropped.
type BatchResult struct {
	Dropped []string
	Preview feature.Frame
	Output  types.Output
}

// Service implements the API dependencies for the staffing predictor.
type Service struct {
	mu sync.RWMutex

	// Core components
	handle  *runtime.Handle
	invoker *predict.Invoker
	builder *feature.Builder

	// Configuration
	strictLabels  bool
	rangeChecks   bool
	delimiter     rune
	modelSource   string
	autoload      bool
	remoteTimeout time.Duration
	breakerFails  uint32
	breakerPause  time.Duration

	// State
	started   bool
	startedAt time.Time

	// Counters
	manualCount atomic.Int64
	batchCount  atomic.Int64
	rowCount    atomic.Int64
	failCount   atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStrictLabels rejects unrecognized categorical answers in manual input.
func WithStrictLabels(strict bool) Option {
	return func(s *Service) {
		s.strictLabels = strict
	}
}

// WithRangeChecks toggles numeric bounds checking in manual input.
func WithRangeChecks(enabled bool) Option {
	return func(s *Service) {
		s.rangeChecks = enabled
	}
}

// WithDelimiter sets the field separator for imported and exported files.
func WithDelimiter(r rune) Option {
	return func(s *Service) {
		if r != 0 {
			s.delimiter = r
		}
	}
}

// WithModelSource sets the default model source. When autoload is set the
// model is loaded by Start.
func WithModelSource(source string, autoload bool) Option {
	return func(s *Service) {
		s.modelSource = strings.TrimSpace(source)
		s.autoload = autoload
	}
}

// WithRemoteTimeout bounds each call to a remote model endpoint.
func WithRemoteTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.remoteTimeout = d
		}
	}
}

// WithRemoteBreaker configures the circuit breaker of remote model clients.
// Zero values keep the client defaults.
func WithRemoteBreaker(failures int, cooldown time.Duration) Option {
	return func(s *Service) {
		if failures > 0 {
			s.breakerFails = uint32(failures)
		}
		if cooldown > 0 {
			s.breakerPause = cooldown
		}
	}
}

// WithHandle shares an existing runtime handle with the service.
func WithHandle(h *runtime.Handle) Option {
	return func(s *Service) {
		if h != nil {
			s.handle = h
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		handle:        runtime.NewHandle(),
		rangeChecks:   true,
		delimiter:     ',',
		remoteTimeout: 30 * time.Second,
		logger:        nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.invoker = predict.NewInvoker(s.handle)
	s.builder = feature.NewBuilder(
		feature.WithStrictLabels(s.strictLabels),
		feature.WithRangeChecks(s.rangeChecks),
	)
	return s
}

// Start initializes the service and autoloads the configured model. A failed
// autoload is logged and leaves the model unloaded.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info(ctx, "staffing service started",
		logger.Bool("strictLabels", s.strictLabels),
		logger.Bool("rangeChecks", s.rangeChecks),
		logger.String("modelSource", s.modelSource),
	)
	metrics.SetModelLoaded(s.handle.Status().Loaded)

	if s.autoload && s.modelSource != "" {
		if _, err := s.LoadModel(ctx, s.modelSource); err != nil {
			s.logger.Warn(ctx, "model autoload failed; predictions are unavailable until a model is loaded",
				logger.String("source", s.modelSource),
				logger.Error(err),
			)
		}
	}
	return nil
}

// Stop shuts the service down. The loaded model is kept so a restarted
// service can keep serving.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.log().Info(context.Background(), "staffing service stopped")
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// DefaultModelSource returns the configured model source.
func (s *Service) DefaultModelSource() string {
	return s.modelSource
}

// Builder returns the shared feature builder.
func (s *Service) Builder() *feature.Builder {
	return s.builder
}

// loaderFor picks a runtime loader by source: http(s) URLs go to the remote
// runtime, everything else is read as a local artifact file.
func (s *Service) loaderFor(source string) (runtime.Loader, string) {
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return remote.Loader{
			Timeout:         s.remoteTimeout,
			BreakerFailures: s.breakerFails,
			BreakerCooldown: s.breakerPause,
			Logger:          s.log().Named("remote"),
		}, "remote"
	}
	return artifact.Loader{}, "forest"
}

// LoadModel loads source and makes it the current model. On failure the
// previously loaded model, if any, stays in place.
func (s *Service) LoadModel(ctx context.Context, source string) (runtime.Status, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		source = s.modelSource
	}
	l, kind := s.loaderFor(source)

	start := time.Now()
	if err := s.handle.Load(ctx, l, source); err != nil {
		metrics.RecordModelLoad(kind, "error")
		metrics.RecordErrorByKind(KindModel, "load")
		s.log().Error(ctx, "model load failed",
			logger.String("source", source),
			logger.String("kind", kind),
			logger.Error(err),
		)
		return s.handle.Status(), err
	}

	status := s.handle.Status()
	metrics.RecordModelLoad(kind, "ok")
	metrics.SetModelLoaded(true)
	s.log().Info(ctx, "model loaded",
		logger.String("source", status.Source),
		logger.String("kind", status.Kind),
		logger.Duration("took", time.Since(start)),
	)
	return status, nil
}

// UnloadModel drops the current model.
func (s *Service) UnloadModel(ctx context.Context) {
	s.handle.Unload()
	metrics.SetModelLoaded(false)
	s.log().Info(ctx, "model unloaded")
}

// ModelStatus reports the model handle state.
func (s *Service) ModelStatus() runtime.Status {
	return s.handle.Status()
}

// PredictManual encodes one form submission and predicts it.
func (s *Service) PredictManual(ctx context.Context, in feature.RawInput) (ManualResult, error) {
	row, err := s.builder.Build(in)
	if err != nil {
		s.fail(ctx, ModeManual, err)
		return ManualResult{}, err
	}
	for _, field := range row.Unmatched() {
		metrics.RecordUnmatchedLabel(field)
		s.log().Debug(ctx, "unrecognized label encoded as 0",
			logger.String("field", field),
			logger.String("label", in.Label(field)),
		)
	}

	out, err := s.invoke(ctx, ModeManual, feature.NewTable(row))
	if err != nil {
		return ManualResult{}, err
	}
	s.manualCount.Add(1)
	return ManualResult{Row: row, Output: out}, nil
}

// PredictBatch reads a delimited file, drops identifier columns and predicts
// every row in one runtime call. Cells are passed through without encoding.
func (s *Service) PredictBatch(ctx context.Context, r io.Reader) (BatchResult, error) {
	frame, err := csvio.Read(r, csvio.WithDelimiter(s.delimiter))
	if err != nil {
		s.fail(ctx, ModeBatch, err)
		return BatchResult{}, err
	}

	table, dropped := feature.BuildBatch(frame)
	metrics.RecordBatchSize(table.Len())
	metrics.RecordDroppedColumns(len(dropped))
	s.log().Debug(ctx, "batch prepared",
		logger.Int("rows", table.Len()),
		logger.Any("dropped", dropped),
	)

	out, err := s.invoke(ctx, ModeBatch, table)
	if err != nil {
		return BatchResult{}, err
	}
	s.batchCount.Add(1)
	preview, _ := frame.Head(PreviewRows).DropIdentifiers()
	return BatchResult{Dropped: dropped, Preview: preview, Output: out}, nil
}

func (s *Service) invoke(ctx context.Context, mode string, t *feature.Table) (types.Output, error) {
	start := time.Now()
	out, err := s.invoker.Predict(ctx, t)
	if err != nil {
		s.fail(ctx, mode, err)
		return types.Output{}, err
	}
	metrics.RecordPrediction(mode, "ok")
	metrics.RecordPredictedRows(mode, out.Len())
	metrics.RecordPredictionLatency(mode, s.handle.Status().Kind, float64(time.Since(start).Microseconds())/1000)
	s.rowCount.Add(int64(out.Len()))
	return out, nil
}

func (s *Service) fail(ctx context.Context, mode string, err error) {
	kind := Kind(err)
	s.failCount.Add(1)
	metrics.RecordPrediction(mode, kind)
	metrics.RecordErrorByKind(kind, mode)
	s.log().Warn(ctx, "prediction failed",
		logger.String("mode", mode),
		logger.String("kind", kind),
		logger.Error(err),
	)
}

// ExportCSV writes o as a delimited file with full precision values.
func (s *Service) ExportCSV(w io.Writer, o types.Output) error {
	if err := csvio.Write(w, o, csvio.WithDelimiter(s.delimiter)); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := s.handle.Status()
	stats := map[string]interface{}{
		"started":           s.started,
		"modelLoaded":       status.Loaded,
		"modelSource":       status.Source,
		"modelKind":         status.Kind,
		"strictLabels":      s.strictLabels,
		"rangeChecks":       s.rangeChecks,
		"manualPredictions": s.manualCount.Load(),
		"batchPredictions":  s.batchCount.Load(),
		"predictedRows":     s.rowCount.Load(),
		"failedPredictions": s.failCount.Load(),
	}
	if s.started {
		stats["uptimeSeconds"] = time.Since(s.startedAt).Seconds()
	}
	return stats
}
