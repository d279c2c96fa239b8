package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FiscalFactRecord is the unified representation of the financial facts
// extracted from a single fiscal document. Each extractor populates as many
// fields as it can locate; a field that could not be parsed stays nil/absent
// and never blocks the rest of the record.
type FiscalFactRecord struct {
	DocumentType     DocumentType               `json:"document_type"`
	TaxpayerID       string                     `json:"taxpayer_id,omitempty"`
	CompetencePeriod string                     `json:"competence_period,omitempty"` // MM/YYYY, "" when unparsable
	GrossTotal       *decimal.Decimal           `json:"gross_total,omitempty"`
	TaxBreakdown     map[string]decimal.Decimal `json:"tax_breakdown,omitempty"`
	Figures          map[string]decimal.Decimal `json:"figures,omitempty"` // non-tax monetary facts (ceilings, credits, totals, ratios)
	Counts           map[string]int64           `json:"counts,omitempty"`
	Lines            []LineItem                 `json:"lines,omitempty"`
}

// LineItem is a single operation row: an NFe product line or one transaction
// of a movement report.
type LineItem struct {
	CFOP                string           `json:"cfop,omitempty"`
	NCM                 string           `json:"ncm,omitempty"`
	Jurisdiction        string           `json:"jurisdiction,omitempty"`
	Amount              *decimal.Decimal `json:"amount,omitempty"`
	CountsTowardRevenue bool             `json:"counts_toward_revenue,omitempty"`
}

// NewFiscalFactRecord returns an empty record tagged with its source type.
// The maps are allocated so extractors can assign fields directly.
func NewFiscalFactRecord(docType DocumentType) FiscalFactRecord {
	return FiscalFactRecord{
		DocumentType: docType,
		TaxBreakdown: make(map[string]decimal.Decimal),
		Figures:      make(map[string]decimal.Decimal),
		Counts:       make(map[string]int64),
	}
}

// Tax returns the named tax amount, or zero when absent.
func (r *FiscalFactRecord) Tax(name string) decimal.Decimal {
	if r.TaxBreakdown == nil {
		return decimal.Zero
	}
	return r.TaxBreakdown[name]
}

// Figure returns the named monetary figure, or zero when absent.
func (r *FiscalFactRecord) Figure(name string) decimal.Decimal {
	if r.Figures == nil {
		return decimal.Zero
	}
	return r.Figures[name]
}

// HasFigure reports whether the named figure was extracted at all.
func (r *FiscalFactRecord) HasFigure(name string) bool {
	if r.Figures == nil {
		return false
	}
	_, ok := r.Figures[name]
	return ok
}

// GrossOrZero returns the gross total, or zero when the field is absent.
func (r *FiscalFactRecord) GrossOrZero() decimal.Decimal {
	if r.GrossTotal == nil {
		return decimal.Zero
	}
	return *r.GrossTotal
}

// CompetenceMonth resolves the competence token into the first day of its
// month. Returns an error for records without a parsable competence.
func (r *FiscalFactRecord) CompetenceMonth() (time.Time, error) {
	return PeriodToMonth(r.CompetencePeriod)
}

// PeriodToMonth converts a canonical MM/YYYY token to the first day of the
// month in UTC.
func PeriodToMonth(period string) (time.Time, error) {
	t, err := time.Parse("01/2006", period)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid competence period %q: %w", period, err)
	}
	return t, nil
}
