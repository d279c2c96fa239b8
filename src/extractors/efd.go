package extractors

import (
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/username/fiscalbr/backend/src/models"
	"github.com/username/fiscalbr/backend/src/normalizer"
)

// ExtractEFDICMS parses a state VAT bookkeeping closure. The template has no
// revenue figure; it contributes the ICMS payable and the credit balance
// carried into the next period.
func ExtractEFDICMS(text string) models.FiscalFactRecord {
	t := normalizer.Fold(text)
	rec := models.NewFiscalFactRecord(models.DocEFDICMS)

	rec.TaxpayerID = extractCNPJ(t)
	rec.CompetencePeriod = extractPeriod(t,
		`periodo(?:\s+de\s+apuracao)?\s*[:.]?\s*([^\n]+)`,
		`competencia\s*[:.]?\s*([^\n]+)`,
	)

	setTax(&rec, models.TaxICMS, extractMoney(t,
		`(?:valor\s+total\s+do\s+)?icms\s+a\s+recolher\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
		`saldo\s+devedor\s+apurado\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
	))
	setFigure(&rec, models.FigSaldoCredorICMS, extractMoney(t,
		`saldo\s+credor\s+(?:a\s+transportar|para\s+o\s+periodo\s+seguinte)\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
	))

	return rec
}

var (
	efdContribDebitsRow  = regexp.MustCompile(`total\s+de\s+(?:debitos|contribuicoes)\s+apurad[oa]s`)
	efdContribCreditsRow = regexp.MustCompile(`total\s+de\s+creditos\s+descontados`)
)

// ExtractEFDContribuicoes parses the federal contributions bookkeeping
// closure. The two contributions share one fixed table row (PIS/Pasep column
// first, Cofins second). When the row is absent both contributions are
// recorded as zero, not omitted, so downstream sums stay well-defined.
func ExtractEFDContribuicoes(text string) models.FiscalFactRecord {
	t := normalizer.Fold(text)
	rec := models.NewFiscalFactRecord(models.DocEFDContribuicoes)

	rec.TaxpayerID = extractCNPJ(t)
	rec.CompetencePeriod = extractPeriod(t,
		`periodo(?:\s+de\s+apuracao)?\s*[:.]?\s*([^\n]+)`,
		`competencia\s*[:.]?\s*([^\n]+)`,
	)

	pis, cofins := twoColumnRow(t, efdContribDebitsRow)
	rec.TaxBreakdown[models.TaxPISPasep] = pis
	rec.TaxBreakdown[models.TaxCOFINS] = cofins

	if line, ok := findLine(t, efdContribCreditsRow); ok {
		if amounts := lineAmounts(line); len(amounts) >= 2 {
			setFigure(&rec, models.FigCreditosPIS, &amounts[0])
			setFigure(&rec, models.FigCreditosCOFINS, &amounts[1])
		}
	}

	return rec
}

// twoColumnRow reads the PIS/Cofins pair off the matched row, falling back
// to zeros when the row is missing or malformed.
func twoColumnRow(text string, re *regexp.Regexp) (decimal.Decimal, decimal.Decimal) {
	line, ok := findLine(text, re)
	if !ok {
		return decimal.Zero, decimal.Zero
	}
	amounts := lineAmounts(line)
	if len(amounts) < 2 {
		return decimal.Zero, decimal.Zero
	}
	pis, cofins := amounts[0], amounts[1]
	if pis.IsNegative() {
		pis = decimal.Zero
	}
	if cofins.IsNegative() {
		cofins = decimal.Zero
	}
	return pis, cofins
}

// ExtractMIT parses the monthly integrated tax return. The three federal
// amounts are located independently; a missing one never blocks the others.
func ExtractMIT(text string) models.FiscalFactRecord {
	t := normalizer.Fold(text)
	rec := models.NewFiscalFactRecord(models.DocMIT)

	rec.TaxpayerID = extractCNPJ(t)
	rec.CompetencePeriod = extractPeriod(t,
		`periodo(?:\s+de\s+apuracao)?\s*[:.]?\s*([^\n]+)`,
		`competencia\s*[:.]?\s*([^\n]+)`,
	)

	setTax(&rec, models.TaxIRPJ, lastLineAmount(t, `\birpj\b`))
	setTax(&rec, models.TaxCSLL, lastLineAmount(t, `\bcsll\b`))
	setTax(&rec, models.TaxIRRF, lastLineAmount(t, `\birrf\b`))

	return rec
}
