package http

import (
	"errors"
	"net/http"
	"time"

	"finboard/internal/analytics"
	"finboard/internal/core"
	applog "finboard/internal/log"
)

type tipsResponse struct {
	Tips []string `json:"tips"`
}

type overviewResponse struct {
	core.Overview
	OnSavingsTarget bool `json:"onSavingsTarget"`
}

// snapshot lists the ledger once for an analytics request.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) ([]core.Transaction, bool) {
	ctx, cancel := s.backendContext(r)
	defer cancel()
	txs, err := s.deps.Backend.ListTransactions(ctx)
	if err != nil {
		writeError(w, r, err, applog.OpAnalyze)
		return nil, false
	}
	return txs, true
}

func (s *Server) handleCategoryAnalysis(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	cats, err := analytics.AggregateByCategory(txs)
	if err != nil {
		writeError(w, r, err, applog.OpAnalyze)
		return
	}
	NewJSONResponse().Body(cats).Write(w)
}

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	tips, err := analytics.GenerateSavingsTips(txs)
	if err != nil {
		writeError(w, r, err, applog.OpAnalyze)
		return
	}
	NewJSONResponse().Body(tipsResponse{Tips: tips}).Write(w)
}

// handlePrediction answers an empty ledger with a zero prediction.
func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	p, err := analytics.PredictMonthlyExpenses(txs)
	if errors.Is(err, core.ErrEmptyInput) {
		p = core.MonthlyPrediction{MonthlyTotals: map[int]float64{}}
	} else if err != nil {
		writeError(w, r, err, applog.OpAnalyze)
		return
	}
	NewJSONResponse().Body(p).Write(w)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	o := analytics.Summarize(txs, time.Now())
	NewJSONResponse().Body(overviewResponse{Overview: o, OnSavingsTarget: analytics.MeetsSavingsTarget(o)}).Write(w)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	alerts, err := analytics.GenerateAlerts(txs, time.Now())
	if err != nil {
		writeError(w, r, err, applog.OpAnalyze)
		return
	}
	NewJSONResponse().Body(alerts).Write(w)
}

func (s *Server) handleEco(w http.ResponseWriter, r *http.Request) {
	txs, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	m, err := analytics.EcoImpact(txs)
	if err != nil {
		writeError(w, r, err, applog.OpAnalyze)
		return
	}
	NewJSONResponse().Body(m).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.backendContext(r)
	defer cancel()
	d, err := s.deps.Dashboard.Build(ctx)
	if err != nil {
		writeError(w, r, err, applog.OpAnalyze)
		return
	}
	NewJSONResponse().Body(d).Write(w)
}
