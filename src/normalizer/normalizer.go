// Package normalizer converts locale-formatted monetary strings and
// free-form period expressions into canonical values. Every extractor parses
// numbers and dates through this package; none carries its own variant.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	periodMonthYearRe = regexp.MustCompile(`\b(\d{2})[/-](\d{4})\b`)
	periodISORe       = regexp.MustCompile(`\b(\d{4})-(\d{2})\b`)
	periodFullDateRe  = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`)
	monthNameRe       = regexp.MustCompile(`\b(janeiro|fevereiro|marco|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro)\s+de\s+(\d{4})\b`)
)

// Month names are matched against folded (lowercase, accent-stripped) text,
// so "março" and "marco" both resolve.
var monthNumbers = map[string]string{
	"janeiro": "01", "fevereiro": "02", "marco": "03", "abril": "04",
	"maio": "05", "junho": "06", "julho": "07", "agosto": "08",
	"setembro": "09", "outubro": "10", "novembro": "11", "dezembro": "12",
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases a string and strips diacritics. Extractors fold document
// text once before pattern matching, so patterns survive the accent loss
// common in PDF text extraction.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// ParseMonetary converts a monetary string into an exact decimal. It strips
// the currency symbol and whitespace; when a decimal comma is present, dots
// are thousands separators and the comma is the decimal point (Brazilian
// convention). Without a comma the value is taken as dot-decimal.
// Returns nil, never an error, on unparsable input; callers must treat nil
// as "field absent", not as zero.
func ParseMonetary(raw string) *decimal.Decimal {
	s := strings.ReplaceAll(raw, "R$", "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// ParsePeriod normalizes a free-form period expression to the canonical
// MM/YYYY token. Accepted shapes: "MM/YYYY", "MM-YYYY", "YYYY-MM",
// "DD/MM/YYYY" (alone or as a "start to end" range, in which case the start
// month wins) and "<month name> de YYYY". Anything ambiguous or unrecognized
// returns "" rather than a guess.
func ParsePeriod(raw string) string {
	s := Fold(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	// Full dates first: the month/year tail of "01/03/2025" would otherwise
	// satisfy the MM/YYYY shape.
	if m := periodFullDateRe.FindStringSubmatch(s); m != nil {
		return canonical(m[2], m[3])
	}
	if m := periodMonthYearRe.FindStringSubmatch(s); m != nil {
		return canonical(m[1], m[2])
	}
	if m := periodISORe.FindStringSubmatch(s); m != nil {
		return canonical(m[2], m[1])
	}
	if m := monthNameRe.FindStringSubmatch(s); m != nil {
		return canonical(monthNumbers[m[1]], m[2])
	}
	return ""
}

func canonical(month, year string) string {
	if month < "01" || month > "12" {
		return ""
	}
	return month + "/" + year
}
