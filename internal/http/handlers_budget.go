package http

import (
	"net/http"

	"budgeter/internal/core"
	"budgeter/internal/history"
	"budgeter/internal/log"
)

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeFailure(w, r, log.OpCompute, err)
		return
	}
	req, err := core.DecodeBudgetRequest(body)
	if err != nil {
		writeFailure(w, r, log.OpCompute, err)
		return
	}

	result, err := s.deps.Budget.Compute(r.Context(), req)
	if err != nil {
		writeFailure(w, r, log.OpCompute, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries := s.deps.Budget.History()
	if entries == nil {
		entries = []history.Entry{}
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "History served",
		log.FieldOperation, log.OpHistory, "entries", len(entries))
	writeJSON(w, http.StatusOK, entries)
}
