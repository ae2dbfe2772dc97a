package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/okian/crewcast/internal/domain/runtime"
)

// ModelHandler reports and replaces the loaded model.
//
// POST /model always accepts the configured default source. Any other
// source needs allowReload, and when sourcePrefixes is set it must also
// start with one of them.
type ModelHandler struct {
	deps           ModelDependencies
	allowReload    bool
	sourcePrefixes []string
}

// NewModelHandler creates a new model handler.
func NewModelHandler(deps ModelDependencies) *ModelHandler {
	return &ModelHandler{deps: deps}
}

type loadModelRequest struct {
	Source string `json:"source"`
}

type modelResponse struct {
	runtime.Status
	DefaultSource string `json:"default_source,omitempty"`
}

// HandleGetModel handles GET /model requests.
func (h *ModelHandler) HandleGetModel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, modelResponse{
		Status:        h.deps.ModelStatus(),
		DefaultSource: h.deps.DefaultModelSource(),
	})
}

// HandleLoadModel handles POST /model requests. An empty or missing source
// loads the configured default. A failed load keeps the previous model.
func (h *ModelHandler) HandleLoadModel(w http.ResponseWriter, r *http.Request) {
	var req loadModelRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("%w: %w", ErrBadRequest, err))
			return
		}
	}

	if err := h.checkSource(req.Source); err != nil {
		writeError(w, http.StatusForbidden, codeForbidden, err)
		return
	}

	status, err := h.deps.LoadModel(r.Context(), req.Source)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, modelResponse{
		Status:        status,
		DefaultSource: h.deps.DefaultModelSource(),
	})
}

func (h *ModelHandler) checkSource(source string) error {
	source = strings.TrimSpace(source)
	if source == "" || source == h.deps.DefaultModelSource() {
		return nil
	}
	if !h.allowReload {
		return fmt.Errorf("%w: only the configured model can be loaded", ErrForbidden)
	}
	if len(h.sourcePrefixes) == 0 {
		return nil
	}
	lower := strings.ToLower(source)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		source = filepath.Clean(source)
	}
	for _, p := range h.sourcePrefixes {
		if strings.HasPrefix(source, p) {
			return nil
		}
	}
	return fmt.Errorf("%w: source is not in the allowed list", ErrForbidden)
}
