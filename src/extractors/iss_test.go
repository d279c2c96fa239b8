package extractors

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/username/fiscalbr/backend/src/models"
)

const issSample = `
PREFEITURA MUNICIPAL DE SÃO PAULO
Encerramento Mensal do ISS
CNPJ: 12.345.678/0001-90
Competência: 03/2025

Valor Total dos Serviços Prestados: R$ 50.000,00
Valor Total dos Serviços Tomados: R$ 10.000,00
ISS Próprio Devido: R$ 1.000,00
ISS Retido na Fonte: R$ 250,00
Quantidade de NFS-e emitidas: 42
`

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func assertDecimalPtr(t *testing.T, label string, got *decimal.Decimal, want string) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %s", label, want)
	}
	if w := mustDecimal(t, want); !got.Equal(w) {
		t.Errorf("%s = %s, want %s", label, got, w)
	}
}

func assertDecimal(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if w := mustDecimal(t, want); !got.Equal(w) {
		t.Errorf("%s = %s, want %s", label, got, w)
	}
}

func TestExtractEncerramentoISS(t *testing.T) {
	rec := ExtractEncerramentoISS(issSample)

	if rec.DocumentType != models.DocEncerramentoISS {
		t.Errorf("DocumentType = %q", rec.DocumentType)
	}
	if rec.TaxpayerID != "12.345.678/0001-90" {
		t.Errorf("TaxpayerID = %q", rec.TaxpayerID)
	}
	if rec.CompetencePeriod != "03/2025" {
		t.Errorf("CompetencePeriod = %q, want 03/2025", rec.CompetencePeriod)
	}
	assertDecimalPtr(t, "GrossTotal", rec.GrossTotal, "50000.00")
	assertDecimal(t, "servicos tomados", rec.Figure(models.FigServicosTomados), "10000.00")
	assertDecimal(t, "iss", rec.Tax(models.TaxISS), "1000.00")
	assertDecimal(t, "iss retido", rec.Tax(models.TaxISSRetido), "250.00")
	if got := rec.Counts[models.CountNFSeEmitidas]; got != 42 {
		t.Errorf("nota count = %d, want 42", got)
	}
}

func TestExtractEncerramentoISSPartial(t *testing.T) {
	// A sparse statement still yields a usable record: located fields are
	// filled, the rest stay absent.
	rec := ExtractEncerramentoISS("Total dos Serviços Prestados: 1.500,00\n")

	assertDecimalPtr(t, "GrossTotal", rec.GrossTotal, "1500.00")
	if rec.CompetencePeriod != "" {
		t.Errorf("CompetencePeriod = %q, want empty", rec.CompetencePeriod)
	}
	if len(rec.TaxBreakdown) != 0 {
		t.Errorf("TaxBreakdown = %v, want empty", rec.TaxBreakdown)
	}
	if _, ok := rec.Counts[models.CountNFSeEmitidas]; ok {
		t.Error("nota count should be absent, not zero")
	}
}
