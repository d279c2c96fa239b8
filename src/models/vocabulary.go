package models

// DocumentType tags a fiscal document with the template family it belongs
// to. The set is closed: extraction dispatch switches exhaustively over it,
// and the aggregation engine only understands these tags.
type DocumentType string

const (
	DocEncerramentoISS   DocumentType = "Encerramento ISS"
	DocPGDAS             DocumentType = "PGDAS"
	DocEFDICMS           DocumentType = "EFD ICMS"
	DocEFDContribuicoes  DocumentType = "EFD Contribuições"
	DocMIT               DocumentType = "MIT"
	DocNFe               DocumentType = "NFe"
	DocRelatorioSaidas   DocumentType = "Relatório de Saídas"
	DocRelatorioEntradas DocumentType = "Relatório de Entradas"
)

// AllDocumentTypes lists every known tag, in vocabulary order.
var AllDocumentTypes = []DocumentType{
	DocEncerramentoISS,
	DocPGDAS,
	DocEFDICMS,
	DocEFDContribuicoes,
	DocMIT,
	DocNFe,
	DocRelatorioSaidas,
	DocRelatorioEntradas,
}

// Regime identifies the tax regime a company files under.
type Regime string

const (
	RegimeSimplesNacional            Regime = "Simples Nacional"
	RegimeLucroPresumidoComercio     Regime = "Lucro Presumido (Comércio/Indústria ou Comércio/Indústria e Serviços)"
	RegimeLucroPresumidoServicos     Regime = "Lucro Presumido (Serviços)"
	RegimeLucroRealComercioIndustria Regime = "Lucro Real (Comércio/Indústria ou Comércio/Indústria e Serviços)"
	RegimeLucroRealServicos          Regime = "Lucro Real (Serviços)"
)

// AllRegimes lists every supported regime.
var AllRegimes = []Regime{
	RegimeSimplesNacional,
	RegimeLucroPresumidoComercio,
	RegimeLucroPresumidoServicos,
	RegimeLucroRealComercioIndustria,
	RegimeLucroRealServicos,
}

// Canonical tax names used as TaxBreakdown keys. New taxes extend this
// vocabulary; they are never invented at runtime.
const (
	TaxIRPJ      = "irpj"
	TaxCSLL      = "csll"
	TaxCOFINS    = "cofins"
	TaxPISPasep  = "pis_pasep"
	TaxINSSCPP   = "inss_cpp"
	TaxICMS      = "icms"
	TaxIPI       = "ipi"
	TaxISS       = "iss"
	TaxISSRetido = "iss_retido"
	TaxIRRF      = "irrf"
)

// SimplesTaxNames are the tax components a PGDAS declaration may name. The
// consistency check sums exactly this set against the declared total.
var SimplesTaxNames = []string{
	TaxIRPJ, TaxCSLL, TaxCOFINS, TaxPISPasep, TaxINSSCPP, TaxICMS, TaxIPI, TaxISS,
}

// Canonical Figures keys: monetary facts that are not taxes.
const (
	FigTotalDebitosTributos = "total_debitos_tributos"  // declared total tax due (PGDAS)
	FigReceitaBruta12M      = "receita_bruta_12m"       // rolling 12-month revenue (RBT12)
	FigReceitaAcumulada     = "receita_bruta_acumulada" // calendar-year accumulated revenue
	FigLimiteReceitaBruta   = "limite_receita_bruta"    // statutory revenue ceiling
	FigSublimiteReceita     = "sublimite_receita"       // statutory ICMS/ISS sub-ceiling
	FigFatorR               = "fator_r"                 // labor-cost ratio, 0-1 fraction
	FigServicosTomados      = "valor_total_servicos_tomados"
	FigSaldoCredorICMS      = "saldo_credor_icms"
	FigCreditosPIS          = "creditos_pis"
	FigCreditosCOFINS       = "creditos_cofins"
)

// Canonical Counts keys.
const (
	CountNFSeEmitidas = "qtd_nfse_emitidas"
	CountOperacoes    = "qtd_operacoes"
)
