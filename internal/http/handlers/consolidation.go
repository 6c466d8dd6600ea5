package handlers

import (
	"net/http"

	"order-consolidation/internal/logx"
)

// MatchHandler runs consolidation over the current order snapshot.
type MatchHandler struct {
	uc     matchUsecase
	logger logx.Logger
}

// NewMatchHandler creates a MatchHandler.
func NewMatchHandler(logger logx.Logger, uc matchUsecase) *MatchHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &MatchHandler{uc: uc, logger: logger}
}

// Match handles GET /orders/match. A run cut short by its deadline still
// answers 200 with partial set.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	res, err := h.uc.Match(r.Context())
	if err != nil {
		reqLogger(h.logger, r).Error("consolidation run failed", logx.Err(err))
		writeError(h.logger, w, r, http.StatusInternalServerError, "order store unavailable")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, resultToResponse(res))
}
