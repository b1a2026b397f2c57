package httpapi

import (
	"context"
	"net/http"
)

type adminHandlers struct {
	sweep func(ctx context.Context) (int, error)
}

func (h *adminHandlers) sweepHandler(w http.ResponseWriter, r *http.Request) {
	n, err := h.sweep(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"swept": n})
}
