package normalizer

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseMonetary(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"brazilian with symbol", "R$ 1.234,56", "1234.56"},
		{"comma only", "1234,56", "1234.56"},
		{"thousands and comma", "1.234,56", "1234.56"},
		{"millions", "R$ 12.345.678,90", "12345678.90"},
		{"dot decimal passthrough", "1234.56", "1234.56"},
		{"plain integer", "500", "500"},
		{"surrounding whitespace", "  R$  42,00  ", "42.00"},
		{"negative", "-10,50", "-10.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMonetary(tt.raw)
			if got == nil {
				t.Fatalf("ParseMonetary(%q) = nil, want %s", tt.raw, tt.want)
			}
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseMonetary(%q) = %s, want %s", tt.raw, got, want)
			}
		})
	}
}

func TestParseMonetaryUnparsable(t *testing.T) {
	for _, raw := range []string{"", "not a number", "R$", "abc,12x", "--"} {
		if got := ParseMonetary(raw); got != nil {
			t.Errorf("ParseMonetary(%q) = %s, want nil", raw, got)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"slash", "03/2025", "03/2025"},
		{"dash", "03-2025", "03/2025"},
		{"iso", "2025-03", "03/2025"},
		{"month name", "março de 2025", "03/2025"},
		{"month name unaccented", "marco de 2025", "03/2025"},
		{"month name uppercase", "MARÇO DE 2025", "03/2025"},
		{"full date", "15/03/2025", "03/2025"},
		{"date range takes start", "01/03/2025 a 31/03/2025", "03/2025"},
		{"embedded in label", "Período de Apuração: 12/2024", "12/2024"},
		{"invalid month", "13/2025", ""},
		{"garbage", "sometime soon", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePeriod(tt.raw); got != tt.want {
				t.Errorf("ParsePeriod(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Março", "marco"},
		{"SERVIÇOS PRESTADOS", "servicos prestados"},
		{"Competência", "competencia"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := Fold(tt.raw); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
