package extractors

import (
	"testing"

	"github.com/username/fiscalbr/backend/src/models"
)

const pgdasSample = `
PGDAS-D - Extrato da Declaração
CNPJ: 11.222.333/0001-44
Período de Apuração (PA): 03/2025

Receita Bruta do PA - Competência   30.000,00   20.000,00   50.000,00
Receita Bruta Acumulada nos doze meses anteriores (RBT12)   200.000,00   280.000,00   480.000,00
Receita Bruta Acumulada no ano-calendário (RBA)   120.000,00
Limite de receita bruta: 4.800.000,00
Sublimite de receita: 3.600.000,00

IRPJ   CSLL   COFINS   PIS/Pasep   INSS/CPP   ICMS   IPI   ISS
200,00   150,00   400,00   100,00   1.500,00   0,00   0,00   1.150,00

Total do Débito Exigível: 3.500,00
Fator R: 0,28
`

func TestExtractPGDAS(t *testing.T) {
	rec := ExtractPGDAS(pgdasSample)

	if rec.TaxpayerID != "11.222.333/0001-44" {
		t.Errorf("TaxpayerID = %q", rec.TaxpayerID)
	}
	if rec.CompetencePeriod != "03/2025" {
		t.Errorf("CompetencePeriod = %q, want 03/2025", rec.CompetencePeriod)
	}

	// Multi-column rows: the last column is the total.
	assertDecimalPtr(t, "GrossTotal", rec.GrossTotal, "50000.00")
	assertDecimal(t, "rbt12", rec.Figure(models.FigReceitaBruta12M), "480000.00")
	assertDecimal(t, "rba", rec.Figure(models.FigReceitaAcumulada), "120000.00")
	assertDecimal(t, "limite", rec.Figure(models.FigLimiteReceitaBruta), "4800000.00")
	assertDecimal(t, "sublimite", rec.Figure(models.FigSublimiteReceita), "3600000.00")
	assertDecimal(t, "total debitos", rec.Figure(models.FigTotalDebitosTributos), "3500.00")
	assertDecimal(t, "fator r", rec.Figure(models.FigFatorR), "0.28")

	wantTaxes := map[string]string{
		models.TaxIRPJ:     "200.00",
		models.TaxCSLL:     "150.00",
		models.TaxCOFINS:   "400.00",
		models.TaxPISPasep: "100.00",
		models.TaxINSSCPP:  "1500.00",
		models.TaxICMS:     "0.00",
		models.TaxIPI:      "0.00",
		models.TaxISS:      "1150.00",
	}
	for name, want := range wantTaxes {
		assertDecimal(t, "tax "+name, rec.Tax(name), want)
	}
}

// Older extracts label each amount inline instead of printing the columnar
// tax table.
func TestExtractPGDASInlineTaxes(t *testing.T) {
	rec := ExtractPGDAS(`
CNPJ: 11.222.333/0001-44
Competência: 01/2025
Receita Bruta do PA: 10.000,00
IRPJ: 50,00
ISS: 300,00
Total do Débito Exigível: 350,00
`)

	assertDecimalPtr(t, "GrossTotal", rec.GrossTotal, "10000.00")
	assertDecimal(t, "irpj", rec.Tax(models.TaxIRPJ), "50.00")
	assertDecimal(t, "iss", rec.Tax(models.TaxISS), "300.00")
	assertDecimal(t, "total debitos", rec.Figure(models.FigTotalDebitosTributos), "350.00")
}

func TestExtractPGDASFatorRPercentage(t *testing.T) {
	// Printed as a percentage: normalized into the 0-1 fraction.
	rec := ExtractPGDAS("Fator R: 28,00%\n")
	assertDecimal(t, "fator r", rec.Figure(models.FigFatorR), "0.28")
}

func TestExtractPGDASRBT12NeverSubstitutesRevenue(t *testing.T) {
	// When the period revenue row is missing the gross total stays absent;
	// the rolling 12-month figure is a different fact.
	rec := ExtractPGDAS("Receita Bruta Acumulada nos doze meses anteriores (RBT12): 480.000,00\n")

	if rec.GrossTotal != nil {
		t.Errorf("GrossTotal = %s, want nil", rec.GrossTotal)
	}
	assertDecimal(t, "rbt12", rec.Figure(models.FigReceitaBruta12M), "480000.00")
}
