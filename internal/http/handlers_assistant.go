package http

import (
	"net/http"

	applog "finboard/internal/log"
)

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(s.deps.Assistant.Messages()).Write(w)
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req assistantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, applog.OpAnalyze)
		return
	}

	ctx, cancel := s.backendContext(r)
	defer cancel()
	reply, err := s.deps.Assistant.Ask(ctx, req.Message)
	if err != nil {
		writeError(w, r, err, applog.OpAnalyze)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(reply).Write(w)
}

// handleResetMessages starts the chat over from the greeting.
func (s *Server) handleResetMessages(w http.ResponseWriter, r *http.Request) {
	s.deps.Assistant.Reset()
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
