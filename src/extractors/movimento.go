package extractors

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/fiscalbr/backend/src/models"
	"github.com/username/fiscalbr/backend/src/normalizer"
)

// nonRevenueCFOPs lists the outbound operation codes that never count as
// revenue: sales returns, devolutions and symbolic remittances. The set is
// a fixed reference constant maintained with the CFOP vocabulary, not
// inferred from data.
var nonRevenueCFOPs = map[string]bool{
	"1201": true, "1202": true, "1410": true, "1411": true,
	"2201": true, "2202": true, "2410": true, "2411": true,
	"5201": true, "5202": true, "5210": true, "5410": true, "5411": true,
	"5915": true, "5927": true,
	"6201": true, "6202": true, "6210": true, "6410": true, "6411": true,
	"6915": true,
}

// One transaction per line: CFOP, two-letter jurisdiction, amount. The CFOP
// label prefix is optional because some municipal layouts print it.
var movimentoLineRe = regexp.MustCompile(`(?m)^\s*(?:cfop\s*)?(\d{4})\s+([a-z]{2})\s+(?:r\$\s*)?(-?[\d.,]+)\s*$`)

// ExtractMovimento parses an outbound or inbound movement report from plain
// text, scanning line by line for transaction rows. Outbound rows are tagged
// with whether they count toward revenue; the gross total is the sum of the
// revenue-counting rows.
func ExtractMovimento(docType models.DocumentType, text string) models.FiscalFactRecord {
	t := normalizer.Fold(text)
	rec := models.NewFiscalFactRecord(docType)

	rec.TaxpayerID = extractCNPJ(t)
	rec.CompetencePeriod = extractPeriod(t,
		`periodo\s*[:.]?\s*([^\n]+)`,
		`competencia\s*[:.]?\s*([^\n]+)`,
	)

	for _, m := range movimentoLineRe.FindAllStringSubmatch(t, -1) {
		appendMovimentoLine(&rec, m[1], strings.ToUpper(m[2]), m[3])
	}
	finishMovimento(&rec)
	return rec
}

// ExtractMovimentoRows parses the same report from already-flattened tabular
// rows (CFOP, jurisdiction, amount columns). Header rows and rows without a
// four-digit CFOP are skipped.
func ExtractMovimentoRows(docType models.DocumentType, rows [][]string) models.FiscalFactRecord {
	rec := models.NewFiscalFactRecord(docType)

	cfopRe := regexp.MustCompile(`^\d{4}$`)
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		cfop := strings.TrimSpace(row[0])
		if !cfopRe.MatchString(cfop) {
			continue
		}
		appendMovimentoLine(&rec, cfop, strings.ToUpper(strings.TrimSpace(row[1])), row[2])
	}
	finishMovimento(&rec)
	return rec
}

func appendMovimentoLine(rec *models.FiscalFactRecord, cfop, uf, rawAmount string) {
	amount := normalizer.ParseMonetary(rawAmount)
	if amount != nil && amount.IsNegative() {
		amount = nil
	}
	rec.Lines = append(rec.Lines, models.LineItem{
		CFOP:                cfop,
		Jurisdiction:        uf,
		Amount:              amount,
		CountsTowardRevenue: rec.DocumentType == models.DocRelatorioSaidas && !nonRevenueCFOPs[cfop],
	})
}

// finishMovimento derives the aggregate facts from the collected rows.
// Inbound reports carry no revenue, so their gross total stays absent.
func finishMovimento(rec *models.FiscalFactRecord) {
	if len(rec.Lines) == 0 {
		return
	}
	rec.Counts[models.CountOperacoes] = int64(len(rec.Lines))
	if rec.DocumentType != models.DocRelatorioSaidas {
		return
	}
	total := decimal.Zero
	for _, line := range rec.Lines {
		if line.CountsTowardRevenue && line.Amount != nil {
			total = total.Add(*line.Amount)
		}
	}
	rec.GrossTotal = &total
}
