package extractors

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/fiscalbr/backend/src/models"
	"github.com/username/fiscalbr/backend/src/normalizer"
)

var (
	// Revenue rows of the PGDAS totals table list internal market, external
	// market, then the total column; lastLineAmount picks the total.
	pgdasRevenueRow = `receita\s+bruta\s+do\s+pa`
	pgdasRBT12Row   = `receita\s+bruta\s+acumulada\s+nos\s+doze\s+meses|rbt12`
	pgdasRBARow     = `receita\s+bruta\s+acumulada\s+no\s+ano[-\s]calendario|\brba\b`

	pgdasTaxHeaderRe = regexp.MustCompile(`\birpj\b.*\bcsll\b.*\biss\b`)
	pgdasTaxNameRe   = regexp.MustCompile(`irpj|csll|cofins|pis/?pasep|inss/?cpp|icms|ipi|iss`)

	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Canonical keys for the tax-name spellings the declaration prints.
var pgdasTaxKeys = map[string]string{
	"irpj": models.TaxIRPJ, "csll": models.TaxCSLL, "cofins": models.TaxCOFINS,
	"pis/pasep": models.TaxPISPasep, "pispasep": models.TaxPISPasep,
	"inss/cpp": models.TaxINSSCPP, "insscpp": models.TaxINSSCPP,
	"icms": models.TaxICMS, "ipi": models.TaxIPI, "iss": models.TaxISS,
}

// ExtractPGDAS parses a Simples Nacional monthly declaration extract. It is
// the richest template: period revenue, the 12-month rolling and
// year-accumulated revenues, the statutory ceiling pair, up to eight named
// tax components, the declared total due and the optional labor-cost ratio.
func ExtractPGDAS(text string) models.FiscalFactRecord {
	t := normalizer.Fold(text)
	rec := models.NewFiscalFactRecord(models.DocPGDAS)

	rec.TaxpayerID = extractCNPJ(t)
	rec.CompetencePeriod = extractPeriod(t,
		`periodo\s+de\s+apuracao\s*(?:\(pa\))?\s*[:.]?\s*([^\n]+)`,
		`competencia\s*[:.]?\s*([^\n]+)`,
	)

	// Period revenue is authoritative for the gross total. The rolling
	// 12-month figure is a distinct fact and must never stand in for it.
	setGross(&rec, lastLineAmount(t, pgdasRevenueRow))
	setFigure(&rec, models.FigReceitaBruta12M, lastLineAmount(t, pgdasRBT12Row))
	setFigure(&rec, models.FigReceitaAcumulada, lastLineAmount(t, pgdasRBARow))

	setFigure(&rec, models.FigLimiteReceitaBruta, extractMoney(t,
		`limite\s+de\s+receita\s+bruta\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
		`limite\s+de\s+faturamento\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
	))
	setFigure(&rec, models.FigSublimiteReceita, extractMoney(t,
		`sublimite\s+de\s+receita\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
		`sublimite\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
	))

	extractSimplesTaxes(t, &rec)

	setFigure(&rec, models.FigTotalDebitosTributos, lastLineAmount(t,
		`total\s+do\s+debito\s+exigivel`,
		`total\s+geral\s+d[ao]\s+(?:debito|empresa)`,
		`total\s+de\s+debitos`,
	))

	if ratio := extractMoney(t, `fator\s*"?r"?\s*[:.(]?\s*([\d.,]+)\s*%?`); ratio != nil && !ratio.IsNegative() {
		v := *ratio
		// Printed as a percentage in most extracts; values already below 1
		// are taken as pre-normalized fractions.
		if v.GreaterThan(one) {
			v = v.Div(hundred)
		}
		rec.Figures[models.FigFatorR] = v
	}

	return rec
}

// extractSimplesTaxes reads the per-tax amounts. Newer extracts print a
// columnar table (a header row naming the taxes, a values row underneath, in
// the same column order); older ones label each amount inline. The column
// pairing is positional by template definition.
func extractSimplesTaxes(t string, rec *models.FiscalFactRecord) {
	if header, ok := findLine(t, pgdasTaxHeaderRe); ok {
		names := pgdasTaxNameRe.FindAllString(header, -1)
		if values := amountsAfterLine(t, header); len(values) > 0 {
			n := len(names)
			if len(values) < n {
				n = len(values)
			}
			for i := 0; i < n; i++ {
				key, known := pgdasTaxKeys[names[i]]
				if !known || values[i].IsNegative() {
					continue
				}
				rec.TaxBreakdown[key] = values[i]
			}
			return
		}
	}

	for spelling, key := range pgdasTaxKeys {
		if _, done := rec.TaxBreakdown[key]; done {
			continue
		}
		setTax(rec, key, extractMoney(t,
			`\b`+regexp.QuoteMeta(spelling)+`\b\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`))
	}
}

// amountsAfterLine returns the amounts of the first non-empty line following
// the given one.
func amountsAfterLine(text, line string) []decimal.Decimal {
	lines := splitLines(text)
	for i, l := range lines {
		if l != line {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == "" {
				continue
			}
			return lineAmounts(lines[j])
		}
		break
	}
	return nil
}
