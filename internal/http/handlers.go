package http

import (
	"net/http"
	"time"

	"budgeter/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

type readyResponse struct {
	Status          string `json:"status"`
	Uptime          string `json:"uptime"`
	HistorySize     int    `json:"history_size"`
	AdviceMode      string `json:"advice_mode"`
	SettingsBackend string `json:"settings_backend"`
	RateLimit       any    `json:"rate_limit"`
	Requests        any    `json:"requests"`
	Suspicious      int64  `json:"suspicious_requests"`
	AdviceCache     any    `json:"advice_cache,omitempty"`
	Events          any    `json:"events,omitempty"`
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	mode := "static"
	if s.deps.Advisor != nil && s.deps.Advisor.Enabled() {
		mode = "gemini"
	}
	resp := readyResponse{
		Status:          "ready",
		Uptime:          time.Since(s.started).Round(time.Second).String(),
		AdviceMode:      mode,
		SettingsBackend: s.deps.SettingsBackend,
		RateLimit:       s.limiter.GetMetrics(),
		Requests:        s.tracer.GetMetrics(),
		Suspicious:      s.detector.SuspiciousRequests(),
	}
	if s.deps.Budget != nil {
		resp.HistorySize = s.deps.Budget.HistorySize()
	}
	if s.deps.AdviceCache != nil {
		resp.AdviceCache = s.deps.AdviceCache.Stats()
	}
	if s.deps.Events != nil {
		resp.Events = s.deps.Events.Stats()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct {
		AIEnabled bool
	}{
		AIEnabled: s.deps.Advisor != nil && s.deps.Advisor.Enabled(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.FromContext(r.Context()).LogError(r.Context(), "Index template execution failed", err, log.OpRender, log.ErrorTypeInternal)
	}
}
