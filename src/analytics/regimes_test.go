package analytics

import (
	"errors"
	"testing"

	"github.com/username/fiscalbr/backend/src/models"
)

func TestRelevantTypes(t *testing.T) {
	tests := []struct {
		regime models.Regime
		want   []models.DocumentType
	}{
		{models.RegimeSimplesNacional, []models.DocumentType{
			models.DocEncerramentoISS, models.DocPGDAS,
		}},
		{models.RegimeLucroPresumidoComercio, []models.DocumentType{
			models.DocEncerramentoISS, models.DocEFDICMS, models.DocEFDContribuicoes,
			models.DocMIT, models.DocRelatorioSaidas, models.DocRelatorioEntradas,
		}},
		{models.RegimeLucroPresumidoServicos, []models.DocumentType{
			models.DocEncerramentoISS, models.DocEFDContribuicoes, models.DocMIT,
			models.DocRelatorioEntradas,
		}},
		{models.RegimeLucroRealComercioIndustria, []models.DocumentType{
			models.DocEncerramentoISS, models.DocEFDContribuicoes, models.DocEFDICMS,
			models.DocRelatorioSaidas, models.DocRelatorioEntradas,
		}},
		{models.RegimeLucroRealServicos, []models.DocumentType{
			models.DocEncerramentoISS, models.DocEFDContribuicoes, models.DocRelatorioEntradas,
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.regime), func(t *testing.T) {
			got, err := RelevantTypes(tt.regime)
			if err != nil {
				t.Fatalf("RelevantTypes() error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("RelevantTypes() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("RelevantTypes()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRelevantTypesUnknownRegime(t *testing.T) {
	if _, err := RelevantTypes(models.Regime("MEI")); !errors.Is(err, ErrUnknownRegime) {
		t.Fatalf("error = %v, want ErrUnknownRegime", err)
	}
}

func TestRelevantTypesReturnsCopy(t *testing.T) {
	first, _ := RelevantTypes(models.RegimeSimplesNacional)
	first[0] = models.DocNFe

	second, _ := RelevantTypes(models.RegimeSimplesNacional)
	if second[0] != models.DocEncerramentoISS {
		t.Error("mutating the returned slice leaked into the rule table")
	}
}
