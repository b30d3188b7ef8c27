package http

import (
	"net/http"

	"budgeter/internal/log"
)

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeFailure(w, r, log.OpChat, err)
		return
	}
	req, err := parseChatRequest(body)
	if err != nil {
		writeFailure(w, r, log.OpChat, err)
		return
	}

	reply, err := s.deps.Advisor.Reply(r.Context(), req.Message, req.Turns)
	if err != nil {
		writeFailure(w, r, log.OpChat, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "Advice replied",
		log.FieldAdviceMode, adviceMode(reply.Degraded, reply.Cached),
		"context_turns", len(req.Turns))
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply.Text})
}

func adviceMode(degraded, cached bool) string {
	switch {
	case degraded:
		return "fallback"
	case cached:
		return "cached"
	default:
		return "provider"
	}
}
