package extractors

import (
	"bytes"
	"encoding/xml"

	"github.com/username/fiscalbr/backend/src/models"
	"github.com/username/fiscalbr/backend/src/normalizer"
)

// --- XML data structures ---

// nfeProc is the protocol wrapper the authorization webservice adds around
// an NFe. Plain <NFe> roots also occur in the wild.
type nfeProc struct {
	XMLName xml.Name `xml:"nfeProc"`
	NFe     nfeDoc   `xml:"NFe"`
}

type nfeDoc struct {
	XMLName xml.Name `xml:"NFe"`
	InfNFe  infNFe   `xml:"infNFe"`
}

type infNFe struct {
	Ide struct {
		DhEmi string `xml:"dhEmi"`
		DEmi  string `xml:"dEmi"`
	} `xml:"ide"`
	Emit struct {
		CNPJ string `xml:"CNPJ"`
	} `xml:"emit"`
	Det []struct {
		Prod struct {
			CFOP string `xml:"CFOP"`
			NCM  string `xml:"NCM"`
		} `xml:"prod"`
	} `xml:"det"`
	Total struct {
		ICMSTot struct {
			VNF    string `xml:"vNF"`
			VICMS  string `xml:"vICMS"`
			VIPI   string `xml:"vIPI"`
			VPIS   string `xml:"vPIS"`
			VCOFIN string `xml:"vCOFINS"`
		} `xml:"ICMSTot"`
	} `xml:"total"`
}

// ExtractNFe performs structural extraction from electronic-invoice markup.
// The wrapped <nfeProc> form is tried first, then a bare <NFe> root; when
// neither matches, the document is structurally invalid and the error says
// so explicitly. This is the one extractor that can fail outright.
func ExtractNFe(content []byte) (models.FiscalFactRecord, error) {
	rec := models.NewFiscalFactRecord(models.DocNFe)

	var inf infNFe
	var proc nfeProc
	if err := xml.NewDecoder(bytes.NewReader(content)).Decode(&proc); err == nil {
		inf = proc.NFe.InfNFe
	} else {
		var doc nfeDoc
		if err := xml.NewDecoder(bytes.NewReader(content)).Decode(&doc); err != nil {
			return rec, &StructureError{
				Extractor: "nfe extractor",
				Detail:    "neither nfeProc nor NFe found at document root",
			}
		}
		inf = doc.InfNFe
	}

	rec.TaxpayerID = inf.Emit.CNPJ
	if emi := firstNonEmpty(inf.Ide.DhEmi, inf.Ide.DEmi); emi != "" {
		rec.CompetencePeriod = normalizer.ParsePeriod(emi)
	}

	setGross(&rec, normalizer.ParseMonetary(inf.Total.ICMSTot.VNF))
	setTax(&rec, models.TaxICMS, normalizer.ParseMonetary(inf.Total.ICMSTot.VICMS))
	setTax(&rec, models.TaxIPI, normalizer.ParseMonetary(inf.Total.ICMSTot.VIPI))
	setTax(&rec, models.TaxPISPasep, normalizer.ParseMonetary(inf.Total.ICMSTot.VPIS))
	setTax(&rec, models.TaxCOFINS, normalizer.ParseMonetary(inf.Total.ICMSTot.VCOFIN))

	for _, det := range inf.Det {
		rec.Lines = append(rec.Lines, models.LineItem{
			CFOP: det.Prod.CFOP,
			NCM:  det.Prod.NCM,
		})
	}
	if len(inf.Det) > 0 {
		rec.Counts[models.CountOperacoes] = int64(len(inf.Det))
	}

	return rec, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
