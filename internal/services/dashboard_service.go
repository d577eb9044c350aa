package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/analytics"
	"finboard/internal/cache"
	"finboard/internal/core"
	"finboard/internal/ledger"
)

const dashboardKey = "dashboard"

// Dashboard is everything the front page needs in one payload. Prediction is
// nil when there are no expenses to project from.
type Dashboard struct {
	Transactions []core.Transaction      `json:"transactions"`
	Categories   []core.CategoryAnalysis `json:"categories"`
	Tips         []string                `json:"tips"`
	Prediction   *core.MonthlyPrediction `json:"prediction"`
	Overview     core.Overview           `json:"overview"`
	OnTarget     bool                    `json:"onSavingsTarget"`
	Alerts       []core.Alert            `json:"alerts"`
	Eco          core.EcoMetrics         `json:"eco"`
	GeneratedAt  time.Time               `json:"generatedAt"`
}

// DashboardService computes and caches the dashboard.
type DashboardService struct {
	lister ledger.TransactionLister
	cache  cache.Cache[Dashboard]
	now    func() time.Time
}

// NewDashboardService builds dashboards from lister. c may be nil to disable
// caching.
func NewDashboardService(lister ledger.TransactionLister, c cache.Cache[Dashboard]) *DashboardService {
	return &DashboardService{lister: lister, cache: c, now: time.Now}
}

// Build returns the cached dashboard or computes a fresh one.
func (s *DashboardService) Build(ctx context.Context) (Dashboard, error) {
	if s.cache != nil {
		if d, ok := s.cache.Get(dashboardKey); ok {
			return d, nil
		}
	}

	txs, err := s.lister.ListTransactions(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list transactions: %w", err)
	}
	d, err := Compute(ctx, txs, s.now())
	if err != nil {
		return Dashboard{}, err
	}

	if s.cache != nil {
		s.cache.Set(dashboardKey, d)
	}
	return d, nil
}

// Invalidate drops the cached dashboard. Call it after every ledger write.
func (s *DashboardService) Invalidate() {
	if s.cache != nil {
		s.cache.Delete(dashboardKey)
	}
}

// CacheStats reports hit and miss counts when the configured cache tracks
// them.
func (s *DashboardService) CacheStats() (cache.Stats, bool) {
	if sc, ok := s.cache.(interface{ Stats() cache.Stats }); ok {
		return sc.Stats(), true
	}
	return cache.Stats{}, false
}

// Compute runs the analytics over one snapshot in parallel.
func Compute(ctx context.Context, txs []core.Transaction, now time.Time) (Dashboard, error) {
	if txs == nil {
		txs = []core.Transaction{}
	}
	d := Dashboard{Transactions: txs, GeneratedAt: now}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		cats, err := analytics.AggregateByCategory(txs)
		if err != nil {
			return fmt.Errorf("aggregate by category: %w", err)
		}
		d.Categories = cats
		return nil
	})
	g.Go(func() error {
		tips, err := analytics.GenerateSavingsTips(txs)
		if err != nil {
			return fmt.Errorf("generate savings tips: %w", err)
		}
		d.Tips = tips
		return nil
	})
	g.Go(func() error {
		p, err := analytics.PredictMonthlyExpenses(txs)
		if errors.Is(err, core.ErrEmptyInput) {
			return nil
		}
		if err != nil {
			return err
		}
		d.Prediction = &p
		return nil
	})
	g.Go(func() error {
		d.Overview = analytics.Summarize(txs, now)
		d.OnTarget = analytics.MeetsSavingsTarget(d.Overview)
		return nil
	})
	g.Go(func() error {
		alerts, err := analytics.GenerateAlerts(txs, now)
		if err != nil {
			return fmt.Errorf("generate alerts: %w", err)
		}
		d.Alerts = alerts
		return nil
	})
	g.Go(func() error {
		eco, err := analytics.EcoImpact(txs)
		if err != nil {
			return fmt.Errorf("eco impact: %w", err)
		}
		d.Eco = eco
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
