// Package extractors turns raw fiscal documents into FiscalFactRecords.
// Each document template family has its own extractor; all of them are pure
// functions over already-loaded content and share the normalizer for every
// number and period they touch. A field that cannot be located is simply
// left absent: partial extraction is a valid outcome, never an error.
package extractors

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/fiscalbr/backend/src/models"
	"github.com/username/fiscalbr/backend/src/normalizer"
)

// Extractors match against folded text (lowercase, accents stripped), so
// every pattern below is written unaccented.
var (
	cnpjRe = regexp.MustCompile(`cnpj\s*[:.]?\s*(\d[\d./-]{12,17}\d)`)
	// Amounts in report rows always carry cents; requiring the decimal comma
	// keeps years and row counters out of column selection.
	rowAmountRe = regexp.MustCompile(`-?(?:\d{1,3}(?:\.\d{3})+|\d+),\d{2}`)
)

// extractField returns the first capture group of the first pattern that
// matches, or "" when none does.
func extractField(text string, patterns ...string) string {
	for _, p := range patterns {
		re := regexp.MustCompile(p)
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// extractMoney locates a monetary field and runs it through the normalizer.
func extractMoney(text string, patterns ...string) *decimal.Decimal {
	raw := extractField(text, patterns...)
	if raw == "" {
		return nil
	}
	return normalizer.ParseMonetary(raw)
}

// extractPeriod locates a period expression and canonicalizes it.
func extractPeriod(text string, patterns ...string) string {
	raw := extractField(text, patterns...)
	if raw == "" {
		return ""
	}
	return normalizer.ParsePeriod(raw)
}

// extractCount locates an integer fact.
func extractCount(text string, patterns ...string) (int64, bool) {
	raw := extractField(text, patterns...)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func extractCNPJ(text string) string {
	if m := cnpjRe.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// findLine returns the first text line matching re.
func findLine(text string, re *regexp.Regexp) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if re.MatchString(line) {
			return line, true
		}
	}
	return "", false
}

// lineAmounts returns every cent-bearing amount on a line, left to right.
func lineAmounts(line string) []decimal.Decimal {
	var out []decimal.Decimal
	for _, tok := range rowAmountRe.FindAllString(line, -1) {
		if d := normalizer.ParseMonetary(tok); d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// lastLineAmount finds the line matching one of the patterns and returns its
// final amount. Report rows list partial columns before the total, so the
// last column is the one that matters; this is a fixed per-template rule.
func lastLineAmount(text string, patterns ...string) *decimal.Decimal {
	for _, p := range patterns {
		line, ok := findLine(text, regexp.MustCompile(p))
		if !ok {
			continue
		}
		amounts := lineAmounts(line)
		if len(amounts) == 0 {
			continue
		}
		last := amounts[len(amounts)-1]
		return &last
	}
	return nil
}

// setGross assigns the record's gross total, discarding absent or negative
// values: a negative revenue base is always an extraction artifact.
func setGross(rec *models.FiscalFactRecord, d *decimal.Decimal) {
	if d == nil || d.IsNegative() {
		return
	}
	rec.GrossTotal = d
}

// setTax records a named tax amount, discarding absent or negative values.
func setTax(rec *models.FiscalFactRecord, name string, d *decimal.Decimal) {
	if d == nil || d.IsNegative() {
		return
	}
	rec.TaxBreakdown[name] = *d
}

// setFigure records a named non-tax monetary fact.
func setFigure(rec *models.FiscalFactRecord, name string, d *decimal.Decimal) {
	if d == nil || d.IsNegative() {
		return
	}
	rec.Figures[name] = *d
}
