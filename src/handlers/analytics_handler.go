package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/username/fiscalbr/backend/src/analytics"
	"github.com/username/fiscalbr/backend/src/logger"
	"github.com/username/fiscalbr/backend/src/models"
	"github.com/username/fiscalbr/backend/src/services"
	"github.com/username/fiscalbr/backend/src/utils"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(service services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: service,
	}
}

// kpiQuery is the parsed, validated query string shared by the KPI and
// projection endpoints.
type kpiQuery struct {
	taxpayerID string
	regime     models.Regime
	from, to   time.Time
}

func parseKpiQuery(r *http.Request) (kpiQuery, error) {
	q := kpiQuery{
		taxpayerID: r.URL.Query().Get("taxpayer_id"),
		regime:     models.Regime(r.URL.Query().Get("regime")),
	}
	if q.taxpayerID == "" {
		return q, errors.New("taxpayer_id query parameter is required")
	}
	if !slices.Contains(models.AllRegimes, q.regime) {
		return q, fmt.Errorf("unknown regime %q", q.regime)
	}

	var err error
	if q.from, err = time.Parse("2006-01", r.URL.Query().Get("from")); err != nil {
		return q, errors.New("from must be a YYYY-MM month")
	}
	if q.to, err = time.Parse("2006-01", r.URL.Query().Get("to")); err != nil {
		return q, errors.New("to must be a YYYY-MM month")
	}
	if q.to.Before(q.from) {
		return q, errors.New("to must not precede from")
	}
	return q, nil
}

func parseCompetenceQuery(r *http.Request) (taxpayerID string, competence time.Time, err error) {
	taxpayerID = r.URL.Query().Get("taxpayer_id")
	if taxpayerID == "" {
		return "", time.Time{}, errors.New("taxpayer_id query parameter is required")
	}
	competence, err = time.Parse("01/2006", r.URL.Query().Get("competence"))
	if err != nil {
		return "", time.Time{}, errors.New("competence must be a MM/YYYY month")
	}
	return taxpayerID, competence, nil
}

// HandleKpis serves GET /api/analytics/kpis. Values are returned both raw (for
// programmatic use) and formatted for display.
func (h *AnalyticsHandler) HandleKpis(w http.ResponseWriter, r *http.Request) {
	q, err := parseKpiQuery(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.analyticsService.Kpis(q.taxpayerID, q.regime, q.from, q.to)
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownRegime) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.L.Error("Failed to compute KPIs", "taxpayerID", q.taxpayerID, "error", err)
		utils.SendJSONError(w, "failed to compute KPIs", http.StatusInternalServerError)
		return
	}

	formattedTaxes := make(map[string]string, len(result.ImpostosPorTipo))
	for name, amount := range result.ImpostosPorTipo {
		formattedTaxes[name] = utils.FormatBRL(amount)
	}
	utils.SendJSON(w, map[string]any{
		"carga_tributaria":        result.CargaTributaria,
		"ticket_medio":            result.TicketMedio,
		"crescimento_faturamento": result.CrescimentoFaturamento,
		"impostos_por_tipo":       result.ImpostosPorTipo,
		"formatado": map[string]any{
			"carga_tributaria":        utils.FormatPercent(&result.CargaTributaria),
			"ticket_medio":            utils.FormatBRL(result.TicketMedio),
			"crescimento_faturamento": utils.FormatPercent(result.CrescimentoFaturamento),
			"impostos_por_tipo":       formattedTaxes,
		},
	}, http.StatusOK)
}

// HandleProjection serves GET /api/analytics/projection. The optional horizon
// parameter defaults to three steps beyond the current period.
func (h *AnalyticsHandler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	q, err := parseKpiQuery(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	horizon := 0
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		if horizon, err = strconv.Atoi(raw); err != nil || horizon < 0 {
			utils.SendJSONError(w, "horizon must be a non-negative integer", http.StatusBadRequest)
			return
		}
	}

	projection, err := h.analyticsService.BurdenProjection(q.taxpayerID, q.regime, q.from, q.to, horizon)
	if err != nil {
		logger.L.Error("Failed to compute burden projection", "taxpayerID", q.taxpayerID, "error", err)
		utils.SendJSONError(w, "failed to compute projection", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]any{"projecao_carga": projection}, http.StatusOK)
}

// HandleReport serves GET /api/analytics/report: the consolidated Simples
// Nacional view for one competence month.
func (h *AnalyticsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	taxpayerID, competence, err := parseCompetenceQuery(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.analyticsService.SimplesReport(taxpayerID, competence)
	if err != nil {
		logger.L.Warn("Failed to build report", "taxpayerID", taxpayerID, "competence", competence.Format("01/2006"), "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	utils.SendJSON(w, report, http.StatusOK)
}

// HandleValidate serves GET /api/analytics/validate: the PGDAS vs ISS-closure
// consistency check for one competence month.
func (h *AnalyticsHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	taxpayerID, competence, err := parseCompetenceQuery(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.analyticsService.ValidateSimples(taxpayerID, competence)
	if err != nil {
		if errors.Is(err, services.ErrPGDASNotFound) {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to run consistency check", "taxpayerID", taxpayerID, "error", err)
		utils.SendJSONError(w, "failed to run consistency check", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}
