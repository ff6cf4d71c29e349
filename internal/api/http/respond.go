package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mind-engage/mindengage-batches/internal/plan"
)

// respondJSON encodes before writing the status so an encoding failure
// still surfaces as a 500.
func respondJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if v != nil {
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			http.Error(w, "encode response: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// respondRunError maps run-fatal pipeline errors to 422 and anything else
// to 500.
func respondRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, plan.ErrConfiguration), errors.Is(err, plan.ErrNoData):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func serveAttachment(w http.ResponseWriter, r *http.Request, name, contentType string, data []byte, modtime time.Time) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	http.ServeContent(w, r, name, modtime, bytes.NewReader(data))
}
