package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nhanzalone1/netgains/internal/brief"
	"github.com/nhanzalone1/netgains/internal/cache"
	"github.com/nhanzalone1/netgains/internal/calendar"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	info, ok := userInfoFromContext(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]brief.Status{"status": brief.StatusUnauthenticated})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleBrief serves GET /api/v1/brief?date=YYYY-MM-DD&tz=Area/City.
func (s *Server) handleBrief(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var loc *time.Location
	if tz := r.URL.Query().Get("tz"); tz != "" {
		var err error
		if loc, err = calendar.LoadLocation(tz, nil); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid tz: " + tz})
			return
		}
	}

	resp := s.briefs.Brief(r.Context(), brief.Request{
		UserID:        uid,
		EffectiveDate: r.URL.Query().Get("date"),
		Location:      loc,
	})
	writeJSON(w, http.StatusOK, resp)
}

type briefEvent struct {
	Type string `json:"type"`
}

// handleBriefEvent serves POST /api/v1/brief/events, dropping the caller's
// cached briefs after a data change.
func (s *Server) handleBriefEvent(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	var body briefEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	ev, err := cache.ParseEvent(body.Type)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := s.briefs.Invalidate(r.Context(), uid, ev); err != nil {
		s.log.Error("brief invalidation failed", "user_id", uid, "event", ev, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "invalidation failed"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
