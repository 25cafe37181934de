package adapthttp

import "net/http"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := s.store.Ping(r.Context()) == nil

	status := "ok"
	if !dbOK {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"db_ok":   dbOK,
		"version": s.info.Version,
		"port":    s.info.Port,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	dbOK := s.store.Ping(r.Context()) == nil

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"db":     map[string]any{"ok": dbOK},
		"log":    map[string]any{"level": s.info.LogLevel},
	})
}
