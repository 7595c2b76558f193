// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matheusft/hackathon-evaluator/internal/adapters/repository"
	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
	"github.com/matheusft/hackathon-evaluator/internal/domain/validate"
)

// SubmitDependencies defines the interface for submission processing.
type SubmitDependencies interface {
	SubmitResults(ctx context.Context, sub *model.Submission) (*Receipt, error)
}

// SubmitHandler handles submission requests.
type SubmitHandler struct {
	deps SubmitDependencies
}

// NewSubmitHandler creates a new submission handler.
func NewSubmitHandler(deps SubmitDependencies) *SubmitHandler {
	return &SubmitHandler{deps: deps}
}

// submitResponse mirrors the success shape for POST /api/submit-results. The
// rank and leaderboard state reported here reflect the already-flushed update.
type submitResponse struct {
	Status             string                  `json:"status"`
	Score              float64                 `json:"score"`
	Rank               int                     `json:"rank"`
	LeaderboardUpdated bool                    `json:"leaderboard_updated"`
	EvaluationDetails  *model.EvaluationResult `json:"evaluation_details"`
	Message            string                  `json:"message"`
}

// rejectResponse is the terminal shape for submissions that fail validation.
type rejectResponse struct {
	Status string  `json:"status"`
	Error  string  `json:"error"`
	Score  float64 `json:"score"`
}

// submitRequest defers decoding of the results object so a wrong-typed
// processed_data/metadata is reported as a validation failure naming the
// field instead of a generic decode error.
type submitRequest struct {
	ParticipantName string          `json:"participant_name"`
	SubmissionTag   string          `json:"submission_tag"`
	BatchID         string          `json:"test_data_id"`
	Results         json.RawMessage `json:"results"`
}

// mistypedResults explains why a results object failed strict decoding.
func mistypedResults(raw json.RawMessage) (string, bool) {
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return "results must be an object", true
	}
	if outcome := validate.RawResults(loose); !outcome.Valid {
		return outcome.Reason, true
	}
	return "", false
}

// HandleSubmitResults handles POST /api/submit-results requests. The
// evaluation, leaderboard update and durable flush all complete before the
// response is written.
func (h *SubmitHandler) HandleSubmitResults(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_results"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, rejectResponse{Status: "error", Error: "invalid JSON body", Score: 0})
		return
	}

	sub := model.Submission{
		ParticipantName: req.ParticipantName,
		SubmissionTag:   req.SubmissionTag,
		BatchID:         req.BatchID,
	}
	if len(req.Results) > 0 {
		if err := json.Unmarshal(req.Results, &sub.Results); err != nil {
			// A missing participant_name still outranks shape problems in
			// the reported reason; evaluation handles that case.
			if reason, mistyped := mistypedResults(req.Results); mistyped && req.ParticipantName != "" {
				writeJSON(w, http.StatusBadRequest, rejectResponse{Status: "error", Error: reason, Score: 0})
				return
			}
		}
	}

	receipt, err := h.deps.SubmitResults(r.Context(), &sub)
	if err != nil {
		if errors.Is(err, repository.ErrFlush) {
			writeError(w, http.StatusBadGateway, "persistence_failed", wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", wrap(op, err))
		return
	}
	if !receipt.Valid {
		writeJSON(w, http.StatusBadRequest, rejectResponse{Status: "error", Error: receipt.Reason, Score: 0})
		return
	}

	msg := "Submission evaluated; best score retained"
	if receipt.Accepted {
		msg = "Submission evaluated and leaderboard updated"
	}
	writeJSON(w, http.StatusOK, submitResponse{
		Status:             "success",
		Score:              receipt.Score,
		Rank:               receipt.Rank,
		LeaderboardUpdated: receipt.Accepted,
		EvaluationDetails:  receipt.Evaluation,
		Message:            msg,
	})
}
