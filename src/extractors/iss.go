package extractors

import (
	"github.com/username/fiscalbr/backend/src/models"
	"github.com/username/fiscalbr/backend/src/normalizer"
)

// ExtractEncerramentoISS parses a municipal ISS closure statement. The gross
// total is strictly the "serviços prestados" figure; "serviços tomados" is a
// separate, non-revenue fact.
func ExtractEncerramentoISS(text string) models.FiscalFactRecord {
	t := normalizer.Fold(text)
	rec := models.NewFiscalFactRecord(models.DocEncerramentoISS)

	rec.TaxpayerID = extractCNPJ(t)
	rec.CompetencePeriod = extractPeriod(t,
		`competencia\s*[:.]?\s*([^\n]+)`,
		`periodo(?:\s+de\s+apuracao)?\s*[:.]?\s*([^\n]+)`,
	)

	setGross(&rec, extractMoney(t,
		`valor\s+total\s+dos\s+servicos\s+prestados\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
		`total\s+dos\s+servicos\s+prestados\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
	))
	setFigure(&rec, models.FigServicosTomados, extractMoney(t,
		`valor\s+total\s+dos\s+servicos\s+tomados\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
		`total\s+dos\s+servicos\s+tomados\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
	))

	setTax(&rec, models.TaxISS, extractMoney(t,
		`iss\s+(?:proprio\s+)?devido\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
		`valor\s+do\s+iss\s+devido\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
	))
	setTax(&rec, models.TaxISSRetido, extractMoney(t,
		`iss\s+retido(?:\s+na\s+fonte)?\s*[:.]?\s*(?:r\$)?\s*([\d.,]+)`,
	))

	if n, ok := extractCount(t,
		`quantidade\s+de\s+nfs-?e\s+emitidas\s*[:.]?\s*(\d+)`,
		`nfs-?e\s+emitidas\s*[:.]?\s*(\d+)`,
	); ok {
		rec.Counts[models.CountNFSeEmitidas] = n
	}

	return rec
}
