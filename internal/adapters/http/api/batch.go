package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/okian/crewcast/internal/domain/present"
)

// uploadField is the multipart form field carrying the batch file.
const uploadField = "file"

// BatchHandler handles file predictions.
type BatchHandler struct {
	deps           BatchDependencies
	maxUploadBytes int64
	now            func() time.Time
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(deps BatchDependencies, maxUploadBytes int64) *BatchHandler {
	return &BatchHandler{deps: deps, maxUploadBytes: maxUploadBytes, now: time.Now}
}

type batchPreview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type batchResponse struct {
	ID      string          `json:"id"`
	Dropped []string        `json:"dropped"`
	Preview batchPreview    `json:"preview"`
	Summary present.Summary `json:"summary"`
	Columns []string        `json:"columns"`
	Rows    [][]float64     `json:"rows"`
	Display [][]string      `json:"display"`
}

// HandlePredictBatch handles POST /predict/batch requests. With
// ?format=csv the results are returned as a downloadable file.
func (h *BatchHandler) HandlePredictBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge,
				fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("%w: missing %q file: %w", ErrBadRequest, uploadField, err))
		return
	}
	defer func() { _ = file.Close() }()

	res, err := h.deps.PredictBatch(r.Context(), file)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", present.ExportFileName(h.now())))
		w.WriteHeader(http.StatusOK)
		_ = h.deps.ExportCSV(w, res.Output)
		return
	}

	dropped := res.Dropped
	if dropped == nil {
		dropped = []string{}
	}
	writeJSON(w, http.StatusOK, batchResponse{
		ID:      uuid.NewString(),
		Dropped: dropped,
		Preview: batchPreview{Columns: res.Preview.Header, Rows: res.Preview.Records},
		Summary: present.Summarize(res.Output),
		Columns: res.Output.Columns,
		Rows:    res.Output.Rows,
		Display: present.FormatRows(res.Output),
	})
}
