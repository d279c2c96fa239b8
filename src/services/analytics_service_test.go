package services

import (
	"errors"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/fiscalbr/backend/src/models"
)

func storedRecord(docType models.DocumentType, competence, gross, totalTaxes string) models.FiscalFactRecord {
	rec := models.NewFiscalFactRecord(docType)
	rec.TaxpayerID = "11.222.333/0001-44"
	rec.CompetencePeriod = competence
	if gross != "" {
		g := decimal.RequireFromString(gross)
		rec.GrossTotal = &g
	}
	if totalTaxes != "" {
		rec.Figures[models.FigTotalDebitosTributos] = decimal.RequireFromString(totalTaxes)
	}
	return rec
}

func TestKpisComparesAgainstPrecedingRange(t *testing.T) {
	store := newFakeStore()
	store.saved["mar"] = storedRecord(models.DocPGDAS, "03/2025", "12000", "840")
	store.saved["feb"] = storedRecord(models.DocPGDAS, "02/2025", "10000", "700")
	svc := NewAnalyticsService(store, cache.New(time.Minute, time.Minute))

	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	result, err := svc.Kpis("11.222.333/0001-44", models.RegimeSimplesNacional, march, march)
	if err != nil {
		t.Fatalf("Kpis() error: %v", err)
	}

	if want := decimal.RequireFromString("7"); !result.CargaTributaria.Equal(want) {
		t.Errorf("CargaTributaria = %s, want %s", result.CargaTributaria, want)
	}
	if result.CrescimentoFaturamento == nil {
		t.Fatal("CrescimentoFaturamento = nil, want 20")
	}
	if want := decimal.RequireFromString("20"); !result.CrescimentoFaturamento.Equal(want) {
		t.Errorf("CrescimentoFaturamento = %s, want %s", result.CrescimentoFaturamento, want)
	}
}

func TestKpisCachesResults(t *testing.T) {
	store := newFakeStore()
	store.saved["mar"] = storedRecord(models.DocPGDAS, "03/2025", "12000", "840")
	resultCache := cache.New(time.Minute, time.Minute)
	svc := NewAnalyticsService(store, resultCache)

	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	first, err := svc.Kpis("11.222.333/0001-44", models.RegimeSimplesNacional, march, march)
	if err != nil {
		t.Fatalf("Kpis() error: %v", err)
	}

	// A second query with identical parameters must come from the cache, not
	// from a fresh store read.
	delete(store.saved, "mar")
	second, err := svc.Kpis("11.222.333/0001-44", models.RegimeSimplesNacional, march, march)
	if err != nil {
		t.Fatalf("second Kpis() error: %v", err)
	}
	if second != first {
		t.Error("expected the cached result instance")
	}

	resultCache.Flush()
	third, err := svc.Kpis("11.222.333/0001-44", models.RegimeSimplesNacional, march, march)
	if err != nil {
		t.Fatalf("third Kpis() error: %v", err)
	}
	if !third.CargaTributaria.IsZero() {
		t.Errorf("after flush and delete, CargaTributaria = %s, want 0", third.CargaTributaria)
	}
}

func TestValidateSimplesRequiresPGDAS(t *testing.T) {
	store := newFakeStore()
	store.saved["iss"] = storedRecord(models.DocEncerramentoISS, "03/2025", "50000", "")
	svc := NewAnalyticsService(store, cache.New(time.Minute, time.Minute))

	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.ValidateSimples("11.222.333/0001-44", march)
	if !errors.Is(err, ErrPGDASNotFound) {
		t.Fatalf("error = %v, want ErrPGDASNotFound", err)
	}
}

func TestValidateSimples(t *testing.T) {
	store := newFakeStore()
	store.saved["pgdas"] = storedRecord(models.DocPGDAS, "03/2025", "50000", "3500")
	svc := NewAnalyticsService(store, cache.New(time.Minute, time.Minute))

	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	result, err := svc.ValidateSimples("11.222.333/0001-44", march)
	if err != nil {
		t.Fatalf("ValidateSimples() error: %v", err)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected warnings: the declared total has no matching components")
	}
}
