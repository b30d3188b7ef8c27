package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"budgeter/internal/advice"
	"budgeter/internal/core"
)

const maxBodyBytes = 1 << 20

func malformed(field, msg string) error {
	return &core.ValidationError{Err: core.ErrMalformedRequest, Field: field, Msg: msg}
}

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, malformed("", "request body too large")
		}
		return nil, malformed("", "could not read request body")
	}
	return body, nil
}

type chatRequest struct {
	Message string
	Turns   []advice.Turn
}

// parseChatRequest accepts {"message": "...", "context": [{"role", "text"}]}.
// A context that is not an array, and turns that are not objects, are ignored.
func parseChatRequest(body []byte) (chatRequest, error) {
	var raw map[string]json.RawMessage
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &raw) != nil || len(raw) == 0 {
		return chatRequest{}, malformed("", "missing JSON body")
	}

	var req chatRequest
	if m, ok := raw["message"]; ok {
		if err := json.Unmarshal(m, &req.Message); err != nil {
			return chatRequest{}, malformed("message", "'message' must be a string")
		}
	}

	var turns []json.RawMessage
	if c, ok := raw["context"]; ok && json.Unmarshal(c, &turns) == nil {
		for _, t := range turns {
			var turn advice.Turn
			if json.Unmarshal(t, &turn) == nil {
				req.Turns = append(req.Turns, turn)
			}
		}
	}
	return req, nil
}
