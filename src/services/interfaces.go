package services

import (
	"errors"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/fiscalbr/backend/src/analytics"
	"github.com/username/fiscalbr/backend/src/extractors"
	"github.com/username/fiscalbr/backend/src/models"
)

var (
	ErrExtractionFailed = errors.New("document extraction failed")
	ErrPGDASNotFound    = errors.New("documento PGDAS não encontrado para o período")
)

// FactStore is the persistence collaborator: upsert-by-document saves and
// competence-range queries. storage.FactStore implements it.
type FactStore interface {
	SaveFact(documentID string, rec models.FiscalFactRecord) error
	QueryFacts(taxpayerID string, from, to time.Time, types ...models.DocumentType) ([]models.FiscalFactRecord, error)
}

// UploadResult reports what one uploaded document produced.
type UploadResult struct {
	DocumentID string                  `json:"document_id"`
	Record     models.FiscalFactRecord `json:"record"`
}

// UploadService runs extraction for uploaded documents and persists the
// resulting facts.
type UploadService interface {
	ProcessDocument(fileReader io.Reader, docType models.DocumentType, medium extractors.Medium) (*UploadResult, error)
}

// KpiResult is the KPI set for one taxpayer/regime/date-range query. Raw
// decimals; the handler formats for display.
type KpiResult struct {
	CargaTributaria        decimal.Decimal
	TicketMedio            decimal.Decimal
	CrescimentoFaturamento *decimal.Decimal
	ImpostosPorTipo        map[string]decimal.Decimal
}

// AnalyticsService computes KPIs over stored facts.
type AnalyticsService interface {
	Kpis(taxpayerID string, regime models.Regime, from, to time.Time) (*KpiResult, error)
	BurdenProjection(taxpayerID string, regime models.Regime, from, to time.Time, horizon int) (map[string]decimal.Decimal, error)
	SimplesReport(taxpayerID string, competence time.Time) (*analytics.SimplesReport, error)
	ValidateSimples(taxpayerID string, competence time.Time) (*analytics.CheckResult, error)
}
