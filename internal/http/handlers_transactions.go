package http

import (
	"net/http"
	"time"

	"finboard/internal/core"
	applog "finboard/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseTransactionFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}

	ctx, cancel := s.backendContext(r)
	defer cancel()
	txs, err := s.deps.Backend.ListTransactions(ctx)
	if err != nil {
		writeError(w, r, err, applog.OpList)
		return
	}
	NewJSONResponse().Body(filter.Apply(txs)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	tx, err := req.toTransaction(time.Now())
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}

	ctx, cancel := s.backendContext(r)
	defer cancel()
	id, err := s.deps.Backend.Append(ctx, tx)
	if err != nil {
		writeError(w, r, err, applog.OpCreate)
		return
	}
	tx.ID = id
	s.recorded.Add(1)
	s.invalidateDashboard()

	applog.NewStructuredLogger(applog.FromContext(r.Context())).
		LogTransactionRecorded(r.Context(), id, tx.Category, string(tx.Type), core.CentsFromAmount(tx.Amount))

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+id).
		Body(tx).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ctx, cancel := s.backendContext(r)
	defer cancel()
	if err := s.deps.Backend.DeleteTransaction(ctx, id); err != nil {
		writeError(w, r, err, applog.OpDelete)
		return
	}
	s.invalidateDashboard()

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction deleted", applog.FieldTransactionID, id)
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) invalidateDashboard() {
	if s.deps.Dashboard != nil {
		s.deps.Dashboard.Invalidate()
	}
}
