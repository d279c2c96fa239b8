package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/username/fiscalbr/backend/src/models"
	"github.com/username/fiscalbr/backend/src/utils"
)

var hundred = decimal.NewFromInt(100)

// findByType returns the first record of the given type, or nil.
func findByType(records []models.FiscalFactRecord, docType models.DocumentType) *models.FiscalFactRecord {
	for i := range records {
		if records[i].DocumentType == docType {
			return &records[i]
		}
	}
	return nil
}

// periodBasics centralizes how revenue, total tax due and invoice count are
// read off a period's records under each regime. Under Simples Nacional the
// PGDAS declaration is authoritative for revenue and the declared total;
// under the other regimes revenue and taxes are summed across all relevant
// document types.
func periodBasics(regime models.Regime, records []models.FiscalFactRecord) (revenue, taxes decimal.Decimal, notas int64) {
	revenue, taxes = decimal.Zero, decimal.Zero
	if len(records) == 0 {
		return revenue, taxes, 0
	}

	if regime == models.RegimeSimplesNacional {
		if pgdas := findByType(records, models.DocPGDAS); pgdas != nil {
			revenue = pgdas.GrossOrZero()
			taxes = pgdas.Figure(models.FigTotalDebitosTributos)
		}
		if iss := findByType(records, models.DocEncerramentoISS); iss != nil {
			notas = iss.Counts[models.CountNFSeEmitidas]
		}
		return revenue, taxes, notas
	}

	for i := range records {
		rec := &records[i]
		revenue = revenue.Add(rec.GrossOrZero())
		if rec.DocumentType == models.DocEncerramentoISS {
			notas += rec.Counts[models.CountNFSeEmitidas]
		}
		for _, amount := range rec.TaxBreakdown {
			taxes = taxes.Add(amount)
		}
	}
	return revenue, taxes, notas
}

// TaxBurden computes total tax due over gross revenue as a percentage,
// rounded half-up to two decimals. Zero revenue yields exactly 0, not an
// error: a period without revenue has no defined burden but must still
// aggregate idempotently.
func TaxBurden(regime models.Regime, records []models.FiscalFactRecord) decimal.Decimal {
	revenue, taxes, _ := periodBasics(regime, records)
	if revenue.IsZero() {
		return decimal.Zero
	}
	return taxes.Mul(hundred).DivRound(revenue, 2)
}

// AverageTicket computes revenue per emitted invoice, rounded half-up to two
// decimals. A zero invoice count yields 0.
func AverageTicket(regime models.Regime, records []models.FiscalFactRecord) decimal.Decimal {
	revenue, _, notas := periodBasics(regime, records)
	if notas == 0 {
		return decimal.Zero
	}
	return revenue.DivRound(decimal.NewFromInt(notas), 2)
}

// RevenueGrowth computes the period-over-period revenue change as a
// percentage. When the previous period's revenue is unavailable or zero the
// growth is undefined and nil is returned, not 0 and not an error.
func RevenueGrowth(regime models.Regime, current, previous []models.FiscalFactRecord) *decimal.Decimal {
	if len(current) == 0 {
		return nil
	}
	currentRevenue, _, _ := periodBasics(regime, current)
	previousRevenue, _, _ := periodBasics(regime, previous)
	if previousRevenue.IsZero() {
		return nil
	}
	growth := currentRevenue.Sub(previousRevenue).Mul(hundred).DivRound(previousRevenue, 2)
	return &growth
}

// TaxBreakdownByType sums the period's amounts per tax name. Simples
// Nacional records contribute the PGDAS named components directly; under the
// other regimes every record's breakdown is accumulated. Always returns a
// fresh map.
func TaxBreakdownByType(regime models.Regime, records []models.FiscalFactRecord) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)

	if regime == models.RegimeSimplesNacional {
		if pgdas := findByType(records, models.DocPGDAS); pgdas != nil {
			for name, amount := range pgdas.TaxBreakdown {
				out[name] = amount
			}
		}
		return out
	}

	for i := range records {
		for name, amount := range records[i].TaxBreakdown {
			out[name] = out[name].Add(amount)
		}
	}
	return out
}

// TaxBurdenProjection projects the burden for the current period plus
// horizon subsequent steps, modeling the statutory ceiling approach: each
// step adds one more income-tax component to the revenue base while the
// total tax due stays constant. Every step is rounded half-up independently.
func TaxBurdenProjection(regime models.Regime, records []models.FiscalFactRecord, horizon int) map[string]decimal.Decimal {
	if horizon <= 0 {
		horizon = 3
	}
	revenue, taxes, _ := periodBasics(regime, records)
	irpj := TaxBreakdownByType(regime, records)[models.TaxIRPJ]

	out := make(map[string]decimal.Decimal, horizon+1)
	for step := 0; step <= horizon; step++ {
		label := "atual"
		if step > 0 {
			label = fmt.Sprintf("mes+%d", step)
		}
		base := revenue.Add(irpj.Mul(decimal.NewFromInt(int64(step))))
		if base.IsZero() {
			out[label] = decimal.Zero
			continue
		}
		out[label] = taxes.Mul(hundred).DivRound(base, 2)
	}
	return out
}

// Consistency check statuses.
const (
	StatusOK        = "OK"
	StatusAttention = "ATENÇÃO"
)

// CheckResult carries the outcome of cross-validating a period's documents.
type CheckResult struct {
	Status   string   `json:"status"`
	Warnings []string `json:"avisos"`
}

// ConsistencyCheck cross-validates a PGDAS declaration against the matching
// ISS closure for the same period. Each violated rule appends one warning;
// the status is OK iff no rule fired. The ISS record may be nil when the
// municipality's closure was not uploaded.
func ConsistencyCheck(pgdas *models.FiscalFactRecord, iss *models.FiscalFactRecord) CheckResult {
	var warnings []string

	receitaPGDAS := pgdas.GrossOrZero()
	receitaISS := decimal.Zero
	if iss != nil {
		receitaISS = iss.GrossOrZero()
	}
	if receitaISS.IsPositive() && !receitaPGDAS.Equal(receitaISS) {
		warnings = append(warnings, fmt.Sprintf(
			"Inconsistência: Receita Bruta PGDAS (%s) ≠ Receita Encerramento ISS (%s)",
			utils.FormatBRL(receitaPGDAS), utils.FormatBRL(receitaISS)))
	}

	totalDeclarado := pgdas.Figure(models.FigTotalDebitosTributos)
	somaIndividual := decimal.Zero
	for _, name := range models.SimplesTaxNames {
		somaIndividual = somaIndividual.Add(pgdas.Tax(name))
	}
	if !somaIndividual.Equal(totalDeclarado) {
		warnings = append(warnings, fmt.Sprintf(
			"Inconsistência: Soma dos tributos (%s) ≠ Total de débitos (%s)",
			utils.FormatBRL(somaIndividual), utils.FormatBRL(totalDeclarado)))
	}

	var qtdNotas int64
	if iss != nil {
		qtdNotas = iss.Counts[models.CountNFSeEmitidas]
	}
	if qtdNotas == 0 {
		warnings = append(warnings,
			"Atenção: Nenhuma NFSe encontrada no Encerramento ISS (ticket médio pode ficar incorreto).")
	}

	if !pgdas.HasFigure(models.FigLimiteReceitaBruta) || pgdas.Figure(models.FigLimiteReceitaBruta).IsZero() {
		warnings = append(warnings, "Limite de faturamento não informado no PGDAS.")
	}
	if !pgdas.HasFigure(models.FigSublimiteReceita) || pgdas.Figure(models.FigSublimiteReceita).IsZero() {
		warnings = append(warnings, "Sublimite de receita (ICMS/ISS) não informado no PGDAS.")
	}

	status := StatusOK
	if len(warnings) > 0 {
		status = StatusAttention
	}
	return CheckResult{Status: status, Warnings: warnings}
}

// SimplesReport is the consolidated analytical view for one Simples Nacional
// competence month. All figures are raw decimals; presentation formatting
// belongs to the HTTP layer.
type SimplesReport struct {
	ReceitaBruta       decimal.Decimal            `json:"receita_bruta"`
	CrescimentoReceita *decimal.Decimal           `json:"crescimento_receita,omitempty"`
	TotalImpostos      decimal.Decimal            `json:"total_impostos"`
	CargaTributaria    decimal.Decimal            `json:"carga_tributaria"`
	TicketMedio        decimal.Decimal            `json:"ticket_medio"`
	SegregacaoTributos map[string]decimal.Decimal `json:"segregacao_tributos"`
}

// SimplesNacionalReport builds the consolidated report for a competence
// month from that month's records and the prior month's. The PGDAS
// declaration is mandatory; everything else degrades gracefully.
func SimplesNacionalReport(current, previous []models.FiscalFactRecord) (*SimplesReport, error) {
	pgdas := findByType(current, models.DocPGDAS)
	if pgdas == nil {
		return nil, fmt.Errorf("documento PGDAS não encontrado para o período de competência")
	}

	report := &SimplesReport{
		ReceitaBruta:       pgdas.GrossOrZero(),
		TotalImpostos:      pgdas.Figure(models.FigTotalDebitosTributos),
		CargaTributaria:    TaxBurden(models.RegimeSimplesNacional, current),
		TicketMedio:        AverageTicket(models.RegimeSimplesNacional, current),
		CrescimentoReceita: RevenueGrowth(models.RegimeSimplesNacional, current, previous),
		SegregacaoTributos: make(map[string]decimal.Decimal),
	}

	// Share of each named component over the sum of the components, not over
	// the declared total, so the slices always add up to 100.
	somaIndividual := decimal.Zero
	for _, name := range models.SimplesTaxNames {
		somaIndividual = somaIndividual.Add(pgdas.Tax(name))
	}
	if somaIndividual.IsPositive() {
		for _, name := range models.SimplesTaxNames {
			amount := pgdas.Tax(name)
			if amount.IsZero() {
				continue
			}
			report.SegregacaoTributos[name] = amount.Mul(hundred).DivRound(somaIndividual, 2)
		}
	}

	return report, nil
}
