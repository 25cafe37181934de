package adapthttp

import "net/http"

const defaultRecentLimit = 10

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", defaultRecentLimit)

	snap, err := s.stats.Snapshot(r.Context(), s.userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
