package extractors

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/username/fiscalbr/backend/src/models"
)

// Medium describes the shape the document content arrives in. The caller
// owns all I/O; the dispatcher only receives already-loaded bytes.
type Medium string

const (
	MediumText    Medium = "text"    // extracted text layer
	MediumTabular Medium = "tabular" // delimited rows (CSV export)
	MediumXML     Medium = "xml"     // structured markup
)

// Dispatch selects the extractor for a declared document type and runs it.
// The switch is exhaustive over the closed DocumentType set, so an unhandled
// tag is a configuration error surfaced to the caller, never a silent skip.
func Dispatch(docType models.DocumentType, medium Medium, content []byte) (models.FiscalFactRecord, error) {
	if docType == models.DocNFe {
		if medium != MediumXML {
			return models.FiscalFactRecord{}, fmt.Errorf("%w: %q requires xml content, got %q",
				ErrUnsupportedMedium, docType, medium)
		}
		return ExtractNFe(content)
	}

	var text string
	var rows [][]string
	switch medium {
	case MediumText:
		text = string(content)
	case MediumTabular:
		var err error
		rows, err = flattenTabular(content)
		if err != nil {
			return models.FiscalFactRecord{}, err
		}
		text = rowsToText(rows)
	default:
		return models.FiscalFactRecord{}, fmt.Errorf("%w: %q", ErrUnsupportedMedium, medium)
	}

	switch docType {
	case models.DocEncerramentoISS:
		return ExtractEncerramentoISS(text), nil
	case models.DocPGDAS:
		return ExtractPGDAS(text), nil
	case models.DocEFDICMS:
		return ExtractEFDICMS(text), nil
	case models.DocEFDContribuicoes:
		return ExtractEFDContribuicoes(text), nil
	case models.DocMIT:
		return ExtractMIT(text), nil
	case models.DocRelatorioSaidas, models.DocRelatorioEntradas:
		if rows != nil {
			return ExtractMovimentoRows(docType, rows), nil
		}
		return ExtractMovimento(docType, text), nil
	default:
		return models.FiscalFactRecord{}, fmt.Errorf("%w: %q", ErrUnknownDocumentType, docType)
	}
}

// flattenTabular reads delimited content into rows. Brazilian spreadsheet
// exports ship with either ';' or ',' separators; the first line decides.
func flattenTabular(content []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if firstLine, _, ok := bytes.Cut(content, []byte("\n")); ok || len(firstLine) > 0 {
		if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
			reader.Comma = ';'
		}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read tabular content: %w", err)
	}
	return rows, nil
}

// rowsToText renders tabular rows back into the line-per-record text shape
// the pattern extractors expect: cells joined by spaces, rows by newlines.
func rowsToText(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "  "))
		b.WriteString("\n")
	}
	return b.String()
}
