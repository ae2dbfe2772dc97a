package api

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/okian/crewcast/internal/domain/feature"
	"github.com/okian/crewcast/internal/domain/present"
)

// maxPredictBody bounds a manual prediction request body.
const maxPredictBody = 64 << 10

// PredictHandler handles manual predictions.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

type namedValue struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Display string  `json:"display,omitempty"`
}

type headline struct {
	Value float64 `json:"value"`
	Text  string  `json:"text"`
}

type predictResponse struct {
	ID         string       `json:"id"`
	Features   []namedValue `json:"features"`
	Unmatched  []string     `json:"unmatched,omitempty"`
	Prediction []namedValue `json:"prediction"`
	Headline   headline     `json:"headline"`
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var in feature.RawInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}

	res, err := h.deps.PredictManual(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := predictResponse{
		ID:        uuid.NewString(),
		Unmatched: res.Row.Unmatched(),
	}
	values := res.Row.Values()
	for i, c := range feature.Columns() {
		resp.Features = append(resp.Features, namedValue{Name: c, Value: values[i]})
	}
	for _, p := range present.Positions(res.Output, 0) {
		resp.Prediction = append(resp.Prediction, namedValue{Name: p.Name, Value: p.Value, Display: present.FormatValue(p.Value)})
	}
	if total, ok := present.Headline(res.Output, 0); ok {
		resp.Headline = headline{Value: total, Text: present.FormatHeadline(total)}
	}
	writeJSON(w, http.StatusOK, resp)
}
