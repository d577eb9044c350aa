package http

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"finboard/internal/core"
	applog "finboard/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.backendContext(r)
	defer cancel()
	cats, err := s.deps.Backend.ListCategories(ctx)
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	NewJSONResponse().Body(cats).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}

	ctx, cancel := s.backendContext(r)
	defer cancel()
	saved, err := s.deps.Backend.SaveCategory(ctx, req.toCategory(""))
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(saved).Write(w)
}

// handleUpdateCategory replaces an existing category; unknown ids are 404
// rather than an implicit insert.
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}

	ctx, cancel := s.backendContext(r)
	defer cancel()
	cats, err := s.deps.Backend.ListCategories(ctx)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	if !slices.ContainsFunc(cats, func(c core.Category) bool { return c.ID == id }) {
		writeError(w, r, fmt.Errorf("category %s: %w", id, core.ErrNotFound), applog.OpUpdate)
		return
	}

	saved, err := s.deps.Backend.SaveCategory(ctx, req.toCategory(id))
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	NewJSONResponse().Body(saved).Write(w)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.backendContext(r)
	defer cancel()
	if err := s.deps.Backend.DeleteCategory(ctx, r.PathValue("id")); err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.backendContext(r)
	defer cancel()
	goals, err := s.deps.Backend.ListGoals(ctx)
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	NewJSONResponse().Body(goals).Write(w)
}

// handleJoinGoal adds the caller to a goal. A missing participant id gets a
// fresh one.
func (s *Server) handleJoinGoal(w http.ResponseWriter, r *http.Request) {
	var req joinGoalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	p := core.Participant{
		ID:           strings.TrimSpace(req.ID),
		Name:         sanitizeInput(req.Name),
		Contribution: req.Contribution,
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	ctx, cancel := s.backendContext(r)
	defer cancel()
	g, err := s.deps.Backend.JoinGoal(ctx, r.PathValue("id"), p)
	if err != nil {
		writeError(w, r, err, applog.OpUpdate)
		return
	}
	NewJSONResponse().Body(g).Write(w)
}
