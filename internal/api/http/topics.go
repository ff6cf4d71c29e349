package http

import (
	"encoding/json"
	"net/http"

	"github.com/mind-engage/mindengage-batches/internal/topics"
)

// GET /topics -> the list a plan would use when none is supplied
func ListTopicsHandler(res topics.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := res.Resolve(r.Context(), nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []topics.Topic{}
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// PUT /topics  [ {"title": "...", "description": "..."}, ... ]
func ReplaceTopicsHandler(store topics.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in []topics.Topic
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		list := topics.Clean(in)
		if len(list) == 0 {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "at least one topic with a title is required"})
			return
		}
		if err := store.Replace(r.Context(), list); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}
