package http

import (
	"net/http"

	applog "finboard/internal/log"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, applog.OpSignup)
		return
	}
	user, err := s.deps.Auth.Register(r.Context(), sanitizeInput(req.Name), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, applog.OpSignup)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(user).Write(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, applog.OpLogin)
		return
	}
	user, err := s.deps.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, applog.OpLogin)
		return
	}
	NewJSONResponse().Body(user).Write(w)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Auth.Logout(r.Context()); err != nil {
		writeError(w, r, err, applog.OpLogin)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok, err := s.deps.Auth.Current(r.Context())
	if err != nil {
		writeError(w, r, err, applog.OpRead)
		return
	}
	if !ok {
		UnauthorizedError("not signed in").Write(w)
		return
	}
	NewJSONResponse().Body(user).Write(w)
}
