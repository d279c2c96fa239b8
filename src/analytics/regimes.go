// Package analytics aggregates extracted fiscal facts into business KPIs.
// Every function is a pure computation over a record collection the caller
// has already filtered by taxpayer and date range; nothing here touches
// storage or mutates its inputs.
package analytics

import (
	"errors"
	"fmt"

	"github.com/username/fiscalbr/backend/src/models"
)

// ErrUnknownRegime signals a regime identifier outside the rule table.
var ErrUnknownRegime = errors.New("unknown tax regime")

// relevantTypesByRegime is the central business-rule table: which document
// types feed KPI computation under each regime, in relevance order. Built
// once at process start and never mutated.
var relevantTypesByRegime = map[models.Regime][]models.DocumentType{
	models.RegimeSimplesNacional: {
		models.DocEncerramentoISS,
		models.DocPGDAS,
	},
	models.RegimeLucroPresumidoComercio: {
		models.DocEncerramentoISS,
		models.DocEFDICMS,
		models.DocEFDContribuicoes,
		models.DocMIT,
		models.DocRelatorioSaidas,
		models.DocRelatorioEntradas,
	},
	models.RegimeLucroPresumidoServicos: {
		models.DocEncerramentoISS,
		models.DocEFDContribuicoes,
		models.DocMIT,
		models.DocRelatorioEntradas,
	},
	models.RegimeLucroRealComercioIndustria: {
		models.DocEncerramentoISS,
		models.DocEFDContribuicoes,
		models.DocEFDICMS,
		models.DocRelatorioSaidas,
		models.DocRelatorioEntradas,
	},
	models.RegimeLucroRealServicos: {
		models.DocEncerramentoISS,
		models.DocEFDContribuicoes,
		models.DocRelatorioEntradas,
	},
}

// RelevantTypes returns the ordered document types that matter for the given
// regime. Unknown regimes are a configuration error, never an empty default.
func RelevantTypes(regime models.Regime) ([]models.DocumentType, error) {
	types, ok := relevantTypesByRegime[regime]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegime, regime)
	}
	out := make([]models.DocumentType, len(types))
	copy(out, types)
	return out, nil
}
