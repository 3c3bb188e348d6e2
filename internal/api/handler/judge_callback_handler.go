package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/TanmayDhobale/algorithmic-arena/internal/app/service"
	"github.com/TanmayDhobale/algorithmic-arena/internal/common"

	"github.com/go-chi/chi/v5"
)

// JudgeCallbackHandler receives the judge engine's fire-and-forget
// per-test-case verdict reports. The judge retries deliveries on its
// own; the service layer is idempotent under that.
type JudgeCallbackHandler struct {
	callbackService *service.JudgeCallbackService
}

func NewJudgeCallbackHandler(cs *service.JudgeCallbackService) *JudgeCallbackHandler {
	return &JudgeCallbackHandler{callbackService: cs}
}

func (h *JudgeCallbackHandler) RegisterRoutes(r chi.Router) {
	// This endpoint should be reachable by the judge engine only, e.g.
	// restricted by network policy or a shared secret header.
	r.Put("/submission-callback", h.handleSubmissionCallback)
}

func (h *JudgeCallbackHandler) handleSubmissionCallback(w http.ResponseWriter, r *http.Request) {
	var payload service.SubmissionCallbackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	defer r.Body.Close()
	if payload.Token == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := h.callbackService.HandleSubmissionCallback(r.Context(), payload); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Legitimate race: duplicate delivery, or a concurrent update
			// consumed the row between lookup and write.
			log.Printf("WARN: Callback for token %s: test case not found: %v", payload.Token, err)
			common.RespondWithError(w, http.StatusNotFound, "Testcase not found")
			return
		}
		log.Printf("ERROR: Callback for token %s: %v", payload.Token, err)
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Internal server error")
		return
	}

	// Same acknowledgment whether or not this delivery finalized the
	// submission; the judge does not track grading state.
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Received"})
}
