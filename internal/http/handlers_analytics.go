package http

import (
	"net/http"

	"expenses/internal/analytics"
)

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	window := analytics.DefaultWindow
	if v := r.URL.Query().Get("range"); v != "" {
		parsed, err := analytics.ParseWindow(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		window = parsed
	}

	writeJSON(w, http.StatusOK, analytics.Summarize(s.store.Expenses(), window, s.now()))
}
