package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

type setAlarmRequest struct {
	Hour   *int `json:"hour"`
	Minute *int `json:"minute"`
}

type alarmResponse struct {
	Hour    int  `json:"hour"`
	Minute  int  `json:"minute"`
	Enabled bool `json:"enabled"`
}

type toggleAlarmRequest struct {
	Enabled *bool `json:"enabled"`
}

type setBrightnessRequest struct {
	Warm *int `json:"warm"`
	Cool *int `json:"cool"`
}

type autoOffRequest struct {
	Enabled *bool `json:"enabled"`
	Minutes *int  `json:"minutes"`
}

type autoOffResponse struct {
	Enabled bool `json:"enabled"`
	Minutes int  `json:"minutes"`
}

type fadingResponse struct {
	Fading bool `json:"fading"`
}

type statusResponse struct {
	CurrentTime    string `json:"currentTime"`
	ClockSynced    bool   `json:"clockSynced"`
	AlarmTime      string `json:"alarmTime"`
	AlarmEnabled   bool   `json:"alarmEnabled"`
	ActiveEffect   string `json:"activeEffect"`
	WarmBrightness int    `json:"warmBrightness"`
	CoolBrightness int    `json:"coolBrightness"`
	AutoOffEnabled bool   `json:"autoOffEnabled"`
	AutoOffMinutes int    `json:"autoOffMinutes"`
}

func (s *Server) handleSetAlarm(w http.ResponseWriter, r *http.Request) {
	var req setAlarmRequest
	if err := decodeJSON(r, &req); err != nil || req.Hour == nil || req.Minute == nil {
		writeError(w, http.StatusBadRequest, "body must contain hour and minute")
		return
	}

	if err := s.ctrl.SetAlarm(*req.Hour, *req.Minute); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, alarmResponse{Hour: *req.Hour, Minute: *req.Minute, Enabled: true})
}

func (s *Server) handleGetAlarm(w http.ResponseWriter, r *http.Request) {
	alarm := s.ctrl.Status().Alarm
	writeJSON(w, http.StatusOK, alarmResponse{Hour: alarm.Hour, Minute: alarm.Minute, Enabled: alarm.Enabled})
}

func (s *Server) handleToggleAlarm(w http.ResponseWriter, r *http.Request) {
	var req toggleAlarmRequest
	if err := decodeJSON(r, &req); err != nil || req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "body must contain enabled")
		return
	}

	s.ctrl.ToggleAlarm(*req.Enabled)

	alarm := s.ctrl.Status().Alarm
	writeJSON(w, http.StatusOK, alarmResponse{Hour: alarm.Hour, Minute: alarm.Minute, Enabled: alarm.Enabled})
}

func (s *Server) handleManualOn(w http.ResponseWriter, r *http.Request) {
	s.ctrl.ManualOn()
	writeJSON(w, http.StatusOK, fadingResponse{Fading: true})
}

func (s *Server) handleManualOff(w http.ResponseWriter, r *http.Request) {
	s.ctrl.ManualOff()
	writeJSON(w, http.StatusOK, fadingResponse{Fading: true})
}

func (s *Server) handleSetBrightness(w http.ResponseWriter, r *http.Request) {
	var req setBrightnessRequest
	if err := decodeJSON(r, &req); err != nil || req.Warm == nil || req.Cool == nil {
		writeError(w, http.StatusBadRequest, "body must contain warm and cool")
		return
	}

	if err := s.ctrl.SetBrightness(*req.Warm, *req.Cool); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Warm   int  `json:"warm"`
		Cool   int  `json:"cool"`
		Fading bool `json:"fading"`
	}{*req.Warm, *req.Cool, true})
}

func (s *Server) handleSetAutoOff(w http.ResponseWriter, r *http.Request) {
	var req autoOffRequest
	if err := decodeJSON(r, &req); err != nil || req.Enabled == nil || req.Minutes == nil {
		writeError(w, http.StatusBadRequest, "body must contain enabled and minutes")
		return
	}

	if err := s.ctrl.SetAutoOff(*req.Enabled, *req.Minutes); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, autoOffResponse{Enabled: *req.Enabled, Minutes: *req.Minutes})
}

func (s *Server) handleGetAutoOff(w http.ResponseWriter, r *http.Request) {
	autoOff := s.ctrl.Status().AutoOff
	writeJSON(w, http.StatusOK, autoOffResponse{Enabled: autoOff.Enabled, Minutes: autoOff.Minutes})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.ctrl.Status()
	writeJSON(w, http.StatusOK, statusResponse{
		CurrentTime:    fmt.Sprintf("%02d:%02d", st.Now.Hour, st.Now.Minute),
		ClockSynced:    st.Synced,
		AlarmTime:      fmt.Sprintf("%02d:%02d", st.Alarm.Hour, st.Alarm.Minute),
		AlarmEnabled:   st.Alarm.Enabled,
		ActiveEffect:   st.Active.String(),
		WarmBrightness: st.Output.Warm,
		CoolBrightness: st.Output.Cool,
		AutoOffEnabled: st.AutoOff.Enabled,
		AutoOffMinutes: st.AutoOff.Minutes,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{"healthy"})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode API response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{msg})
}
