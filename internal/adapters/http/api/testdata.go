// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
)

// TestDataDependencies defines the interface for test-data issuance.
type TestDataDependencies interface {
	GetTestData(ctx context.Context, participant, tag string) (*model.TestDataBatch, error)
}

// TestDataHandler handles test-data requests.
type TestDataHandler struct {
	deps TestDataDependencies
}

// NewTestDataHandler creates a new test-data handler.
func NewTestDataHandler(deps TestDataDependencies) *TestDataHandler {
	return &TestDataHandler{deps: deps}
}

// HandleGetTestData handles GET /api/test-data?participant_name=X&submission_tag=Y
// requests. The same pair always receives the same batch.
func (h *TestDataHandler) HandleGetTestData(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_test_data"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	participant := strings.TrimSpace(r.URL.Query().Get("participant_name"))
	if participant == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrap(op, ErrMissingParticipant))
		return
	}
	tag := strings.TrimSpace(r.URL.Query().Get("submission_tag"))

	batch, err := h.deps.GetTestData(r.Context(), participant, tag)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, batch)
}
