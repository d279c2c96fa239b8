package extractors

import (
	"testing"

	"github.com/username/fiscalbr/backend/src/models"
)

const saidasSample = `
Relatório de Saídas
CNPJ: 11.222.333/0001-44
Período: 03/2025

5102  SP  R$ 1.000,00
5102  RJ  500,00
5915  SP  200,00
6102  MG  300,00
`

func TestExtractMovimentoSaidas(t *testing.T) {
	rec := ExtractMovimento(models.DocRelatorioSaidas, saidasSample)

	if rec.CompetencePeriod != "03/2025" {
		t.Errorf("CompetencePeriod = %q, want 03/2025", rec.CompetencePeriod)
	}
	if len(rec.Lines) != 4 {
		t.Fatalf("len(Lines) = %d, want 4", len(rec.Lines))
	}
	if got := rec.Counts[models.CountOperacoes]; got != 4 {
		t.Errorf("operation count = %d, want 4", got)
	}

	// 5915 is a symbolic remittance: recorded but excluded from revenue.
	for _, line := range rec.Lines {
		wantRevenue := line.CFOP != "5915"
		if line.CountsTowardRevenue != wantRevenue {
			t.Errorf("CFOP %s CountsTowardRevenue = %v, want %v", line.CFOP, line.CountsTowardRevenue, wantRevenue)
		}
	}
	if rec.Lines[1].Jurisdiction != "RJ" {
		t.Errorf("Lines[1].Jurisdiction = %q, want RJ", rec.Lines[1].Jurisdiction)
	}

	// Gross total sums only the revenue-counting rows.
	assertDecimalPtr(t, "GrossTotal", rec.GrossTotal, "1800.00")
}

func TestExtractMovimentoEntradas(t *testing.T) {
	rec := ExtractMovimento(models.DocRelatorioEntradas, `
Relatório de Entradas
Período: 03/2025
1102  SP  700,00
2102  RJ  300,00
`)

	if len(rec.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(rec.Lines))
	}
	for _, line := range rec.Lines {
		if line.CountsTowardRevenue {
			t.Errorf("inbound CFOP %s marked as revenue", line.CFOP)
		}
	}
	if rec.GrossTotal != nil {
		t.Errorf("GrossTotal = %s, want nil: inbound reports carry no revenue", rec.GrossTotal)
	}
}

func TestExtractMovimentoRows(t *testing.T) {
	rec := ExtractMovimentoRows(models.DocRelatorioSaidas, [][]string{
		{"CFOP", "UF", "Valor"},
		{"5102", "SP", "1.000,00"},
		{"5411", "RJ", "250,00"},
		{"", "", ""},
	})

	if len(rec.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(rec.Lines))
	}
	if rec.Lines[1].CountsTowardRevenue {
		t.Error("CFOP 5411 (sales return) should not count toward revenue")
	}
	assertDecimalPtr(t, "GrossTotal", rec.GrossTotal, "1000.00")
}

func TestExtractMovimentoNegativeAmountDropped(t *testing.T) {
	rec := ExtractMovimento(models.DocRelatorioSaidas, "5102  SP  -50,00\n")

	if len(rec.Lines) != 1 {
		t.Fatalf("len(Lines) = %d, want 1", len(rec.Lines))
	}
	if rec.Lines[0].Amount != nil {
		t.Errorf("Amount = %s, want nil for negative input", rec.Lines[0].Amount)
	}
	assertDecimalPtr(t, "GrossTotal", rec.GrossTotal, "0")
}
