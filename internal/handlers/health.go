package handlers

import "net/http"

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if err := s.App.Store().Ping(); err != nil {
		http.Error(w, "db not ok", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
