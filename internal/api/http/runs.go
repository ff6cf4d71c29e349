package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mind-engage/mindengage-batches/internal/runlog"
)

// RunLister reads the run log in sequence order.
type RunLister interface {
	Since(ctx context.Context, after int64, limit int) ([]runlog.Event, error)
}

type runView struct {
	Seq       int64           `json:"seq"`
	SiteID    string          `json:"site_id"`
	Type      string          `json:"type"`
	Plan      string          `json:"plan"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// GET /runs?after=<seq>&limit=<n>
func ListRunsHandler(runs RunLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var after int64
		if v := q.Get("after"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				http.Error(w, "after must be a non-negative integer", http.StatusBadRequest)
				return
			}
			after = n
		}
		limit := 100
		if v := q.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 1000 {
				http.Error(w, "limit must be between 1 and 1000", http.StatusBadRequest)
				return
			}
			limit = n
		}

		events, err := runs.Since(r.Context(), after, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out := make([]runView, 0, len(events))
		for _, e := range events {
			data := json.RawMessage(e.DataJSON)
			if !json.Valid(data) {
				data = json.RawMessage("null")
			}
			out = append(out, runView{
				Seq:       e.Seq,
				SiteID:    e.SiteID,
				Type:      e.Type,
				Plan:      e.Key,
				Data:      data,
				CreatedAt: time.Unix(e.CreatedAt, 0).UTC(),
			})
		}
		respondJSON(w, http.StatusOK, out)
	}
}
