package services

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/fiscalbr/backend/src/analytics"
	"github.com/username/fiscalbr/backend/src/logger"
	"github.com/username/fiscalbr/backend/src/models"
)

type analyticsServiceImpl struct {
	store       FactStore
	resultCache *cache.Cache
}

// NewAnalyticsService creates the KPI computation service. Results are cached
// per taxpayer/regime/range until an upload flushes the cache.
func NewAnalyticsService(store FactStore, resultCache *cache.Cache) AnalyticsService {
	return &analyticsServiceImpl{
		store:       store,
		resultCache: resultCache,
	}
}

func kpiCacheKey(taxpayerID string, regime models.Regime, from, to time.Time) string {
	return fmt.Sprintf("kpis_%s_%s_%s_%s", taxpayerID, regime, from.Format("2006-01"), to.Format("2006-01"))
}

// monthSpan counts the whole months in the inclusive from..to range. Both
// endpoints are truncated to their month.
func monthSpan(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}

// periodRecords loads the regime-relevant facts for a month range, plus the
// records of the immediately preceding range of the same length (used for
// growth comparisons).
func (s *analyticsServiceImpl) periodRecords(taxpayerID string, regime models.Regime, from, to time.Time) (current, previous []models.FiscalFactRecord, err error) {
	types, err := analytics.RelevantTypes(regime)
	if err != nil {
		return nil, nil, err
	}

	current, err = s.store.QueryFacts(taxpayerID, from, to, types...)
	if err != nil {
		return nil, nil, err
	}

	span := monthSpan(from, to)
	prevFrom := from.AddDate(0, -span, 0)
	prevTo := from.AddDate(0, -1, 0)
	previous, err = s.store.QueryFacts(taxpayerID, prevFrom, prevTo, types...)
	if err != nil {
		return nil, nil, err
	}
	return current, previous, nil
}

func (s *analyticsServiceImpl) Kpis(taxpayerID string, regime models.Regime, from, to time.Time) (*KpiResult, error) {
	cacheKey := kpiCacheKey(taxpayerID, regime, from, to)
	if cached, found := s.resultCache.Get(cacheKey); found {
		if result, ok := cached.(*KpiResult); ok {
			logger.L.Debug("Returning cached KPI result", "cacheKey", cacheKey)
			return result, nil
		}
	}

	current, previous, err := s.periodRecords(taxpayerID, regime, from, to)
	if err != nil {
		return nil, err
	}

	result := &KpiResult{
		CargaTributaria:        analytics.TaxBurden(regime, current),
		TicketMedio:            analytics.AverageTicket(regime, current),
		CrescimentoFaturamento: analytics.RevenueGrowth(regime, current, previous),
		ImpostosPorTipo:        analytics.TaxBreakdownByType(regime, current),
	}

	s.resultCache.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

func (s *analyticsServiceImpl) BurdenProjection(taxpayerID string, regime models.Regime, from, to time.Time, horizon int) (map[string]decimal.Decimal, error) {
	types, err := analytics.RelevantTypes(regime)
	if err != nil {
		return nil, err
	}
	records, err := s.store.QueryFacts(taxpayerID, from, to, types...)
	if err != nil {
		return nil, err
	}
	return analytics.TaxBurdenProjection(regime, records, horizon), nil
}

func (s *analyticsServiceImpl) SimplesReport(taxpayerID string, competence time.Time) (*analytics.SimplesReport, error) {
	current, previous, err := s.periodRecords(taxpayerID, models.RegimeSimplesNacional, competence, competence)
	if err != nil {
		return nil, err
	}
	return analytics.SimplesNacionalReport(current, previous)
}

func (s *analyticsServiceImpl) ValidateSimples(taxpayerID string, competence time.Time) (*analytics.CheckResult, error) {
	records, err := s.store.QueryFacts(taxpayerID, competence, competence,
		models.DocPGDAS, models.DocEncerramentoISS)
	if err != nil {
		return nil, err
	}

	var pgdas, iss *models.FiscalFactRecord
	for i := range records {
		switch records[i].DocumentType {
		case models.DocPGDAS:
			pgdas = &records[i]
		case models.DocEncerramentoISS:
			iss = &records[i]
		}
	}
	if pgdas == nil {
		return nil, fmt.Errorf("%w: %s", ErrPGDASNotFound, competence.Format("01/2006"))
	}

	result := analytics.ConsistencyCheck(pgdas, iss)
	return &result, nil
}
