// Package storage persists extracted fiscal facts and serves the range
// queries the aggregation layer needs. Reprocessing a document replaces its
// prior record: saving is an upsert keyed by document id.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/fiscalbr/backend/src/models"
)

type FactStore struct {
	db *sql.DB
}

func NewFactStore(db *sql.DB) *FactStore {
	return &FactStore{db: db}
}

// SaveFact stores a record under its document id, replacing any earlier
// extraction of the same document.
func (s *FactStore) SaveFact(documentID string, rec models.FiscalFactRecord) error {
	taxBreakdown, err := json.Marshal(rec.TaxBreakdown)
	if err != nil {
		return fmt.Errorf("failed to encode tax breakdown: %w", err)
	}
	figures, err := json.Marshal(rec.Figures)
	if err != nil {
		return fmt.Errorf("failed to encode figures: %w", err)
	}
	counts, err := json.Marshal(rec.Counts)
	if err != nil {
		return fmt.Errorf("failed to encode counts: %w", err)
	}
	var lines []byte
	if len(rec.Lines) > 0 {
		if lines, err = json.Marshal(rec.Lines); err != nil {
			return fmt.Errorf("failed to encode line items: %w", err)
		}
	}

	var grossTotal sql.NullString
	if rec.GrossTotal != nil {
		grossTotal = sql.NullString{String: rec.GrossTotal.String(), Valid: true}
	}
	var competence sql.NullString
	if sortable := sortableCompetence(rec.CompetencePeriod); sortable != "" {
		competence = sql.NullString{String: sortable, Valid: true}
	}

	_, err = s.db.Exec(`
		INSERT INTO fiscal_facts
			(document_id, taxpayer_id, document_type, competence, gross_total, tax_breakdown, figures, counts, lines)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(document_id) DO UPDATE SET
			taxpayer_id = excluded.taxpayer_id,
			document_type = excluded.document_type,
			competence = excluded.competence,
			gross_total = excluded.gross_total,
			tax_breakdown = excluded.tax_breakdown,
			figures = excluded.figures,
			counts = excluded.counts,
			lines = excluded.lines,
			updated_at = CURRENT_TIMESTAMP`,
		documentID, rec.TaxpayerID, string(rec.DocumentType), competence,
		grossTotal, string(taxBreakdown), string(figures), string(counts), nullableBytes(lines),
	)
	if err != nil {
		return fmt.Errorf("failed to save fact for document %s: %w", documentID, err)
	}
	return nil
}

// QueryFacts returns the facts for a taxpayer whose competence falls inside
// the inclusive month range, optionally restricted to a document-type
// subset. Records without a parsable competence are never returned by a
// range query.
func (s *FactStore) QueryFacts(taxpayerID string, from, to time.Time, types ...models.DocumentType) ([]models.FiscalFactRecord, error) {
	query := `
		SELECT document_type, taxpayer_id, competence, gross_total, tax_breakdown, figures, counts, lines
		FROM fiscal_facts
		WHERE taxpayer_id = ? AND competence IS NOT NULL AND competence >= ? AND competence <= ?`
	args := []any{taxpayerID, from.Format("2006-01"), to.Format("2006-01")}

	if len(types) > 0 {
		placeholders := strings.Repeat("?,", len(types))
		query += " AND document_type IN (" + placeholders[:len(placeholders)-1] + ")"
		for _, t := range types {
			args = append(args, string(t))
		}
	}
	query += " ORDER BY competence, document_type"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts for %s: %w", taxpayerID, err)
	}
	defer rows.Close()

	var records []models.FiscalFactRecord
	for rows.Next() {
		rec, err := scanFact(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanFact(rows *sql.Rows) (models.FiscalFactRecord, error) {
	var (
		docType, taxpayerID                  string
		competence, grossTotal               sql.NullString
		taxBreakdown, figures, counts, lines sql.NullString
	)
	if err := rows.Scan(&docType, &taxpayerID, &competence, &grossTotal,
		&taxBreakdown, &figures, &counts, &lines); err != nil {
		return models.FiscalFactRecord{}, fmt.Errorf("failed to scan fact row: %w", err)
	}

	rec := models.NewFiscalFactRecord(models.DocumentType(docType))
	rec.TaxpayerID = taxpayerID
	if competence.Valid {
		rec.CompetencePeriod = displayCompetence(competence.String)
	}
	if grossTotal.Valid {
		d, err := decimal.NewFromString(grossTotal.String)
		if err != nil {
			return rec, fmt.Errorf("corrupt gross_total %q: %w", grossTotal.String, err)
		}
		rec.GrossTotal = &d
	}
	if err := decodeJSON(taxBreakdown, &rec.TaxBreakdown); err != nil {
		return rec, err
	}
	if err := decodeJSON(figures, &rec.Figures); err != nil {
		return rec, err
	}
	if err := decodeJSON(counts, &rec.Counts); err != nil {
		return rec, err
	}
	if lines.Valid && lines.String != "" {
		if err := json.Unmarshal([]byte(lines.String), &rec.Lines); err != nil {
			return rec, fmt.Errorf("corrupt line items: %w", err)
		}
	}
	return rec, nil
}

func decodeJSON[T any](col sql.NullString, dst *T) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(col.String), dst); err != nil {
		return fmt.Errorf("corrupt stored column: %w", err)
	}
	return nil
}

// sortableCompetence converts the canonical MM/YYYY token into the YYYY-MM
// form the range query sorts on.
func sortableCompetence(period string) string {
	t, err := models.PeriodToMonth(period)
	if err != nil {
		return ""
	}
	return t.Format("2006-01")
}

func displayCompetence(sortable string) string {
	t, err := time.Parse("2006-01", sortable)
	if err != nil {
		return ""
	}
	return t.Format("01/2006")
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
