package adapthttp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"flowform/internal/app"
	"flowform/internal/domain"
)

const defaultListLimit = 50

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", defaultListLimit)

	sessions, err := s.sessions.List(r.Context(), s.userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	input := app.SessionInput{
		Title:           stringField(body, "title"),
		Category:        stringField(body, "category"),
		Intensity:       intField(body, "intensity"),
		DurationMinutes: intField(body, "duration_minutes"),
		Notes:           stringField(body, "notes"),
	}

	sess, err := s.sessions.Create(r.Context(), s.userID, input)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, domain.ErrSessionNotFound)
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	metric := app.MetricInput{
		HeartRateAvg:      optionalIntField(body, "heart_rate_avg"),
		Calories:          optionalIntField(body, "calories"),
		PerceivedExertion: optionalIntField(body, "perceived_exertion"),
	}

	sess, err := s.sessions.Complete(r.Context(), s.userID, id, metric)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}
