package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type serviceHandlers struct {
	pool *pgxpool.Pool
}

type serviceView struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

func (h *serviceHandlers) list(w http.ResponseWriter, r *http.Request) {
	rows, err := h.pool.Query(r.Context(), `SELECT id, category, name, price_cents FROM services WHERE is_active=true ORDER BY category, name`)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}
	defer rows.Close()

	var out []serviceView
	for rows.Next() {
		var s serviceView
		if err := rows.Scan(&s.ID, &s.Category, &s.Name, &s.PriceCents); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error(), "")
			return
		}
		out = append(out, s)
	}
	writeJSON(w, http.StatusOK, out)
}

func healthzHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable", "")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}
}
