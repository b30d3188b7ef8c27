package http

import (
	"net/http"

	"budgeter/internal/log"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	blob, err := s.deps.Settings.Load(r.Context())
	if err != nil {
		writeFailure(w, r, log.OpLoad, err)
		return
	}
	writeJSON(w, http.StatusOK, blob)
}

func (s *Server) handlePostSettings(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeFailure(w, r, log.OpSave, err)
		return
	}
	if err := s.deps.Settings.Save(r.Context(), body); err != nil {
		writeFailure(w, r, log.OpSave, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Settings updated", "bytes", len(body))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Settings updated successfully"})
}
