package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/aggregating"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/fetching"
	"github.com/vfg2006/marketing-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/marketing-analytics-api/pkg/log"
	"github.com/vfg2006/marketing-analytics-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Fontes padrão dos painéis derivados; podem ser trocadas pelo parâmetro
// de query "source"
const (
	defaultRowsSource        = "campaigns"
	defaultAttributionSource = "contracts_enriched"
	defaultTopCampaignsLimit = 10
)

type filtersRequest struct {
	DateFrom  string   `json:"date_from"`
	DateTo    string   `json:"date_to"`
	Platforms []string `json:"platforms"`
	Search    *string  `json:"search"`
	Page      *int     `json:"page"`
	PageSize  *int     `json:"page_size"`
}

func GetDashboard(dashboard *fetching.Dashboard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		snapshot := dashboard.Snapshot()

		logger.WithFields(log.Fields{
			"state":    snapshot.State,
			"loading":  snapshot.Loading,
			"cycle_id": snapshot.CycleID,
		}).Debug("analytics: serving dashboard snapshot")

		writeJSON(w, logger, snapshot)
	})
}

func UpdateFilters(dashboard *fetching.Dashboard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req filtersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WithField("error", err.Error()).Warn("analytics: invalid filters payload")

			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "corpo da requisição inválido", nil)
			return
		}

		params, err := req.toQueryParams()
		if err != nil {
			logger.WithField("error", err.Error()).Warn("analytics: invalid date in filters payload")

			apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, err.Error(), nil)
			return
		}

		applied := dashboard.SetFilters(params)

		logger.WithFields(log.Fields{
			"date_from": applied.DateFrom.Format(time.DateOnly),
			"date_to":   applied.DateTo.Format(time.DateOnly),
			"platforms": applied.Platforms,
		}).Info("analytics: filters updated")

		writeJSON(w, logger, dashboard.Snapshot())
	})
}

func RefetchDashboard(dashboard *fetching.Dashboard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		dashboard.Refetch()

		logger.WithField("cache_key", dashboard.Filters().CacheKey()).Info("analytics: refetch requested")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		if err := json.NewEncoder(w).Encode(dashboard.Snapshot()); err != nil {
			logger.WithField("error", err.Error()).Error("analytics: failed to encode response")
		}
	})
}

// GetComparisonView devolve as linhas agregadas por plataforma e período,
// com o crescimento entre períodos, mais a linha consolidada por
// plataforma
func GetComparisonView(dashboard *fetching.Dashboard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		series, ok := snapshotSeries(dashboard, r, defaultRowsSource)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "fonte de dados indisponível no snapshot", nil)
			return
		}

		rowMetric, err := rowMetricFromRequest(r)
		if err != nil {
			logger.WithField("metric", r.URL.Query().Get("metric")).Warn("analytics: invalid metric parameter")

			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		rows := aggregating.AggregateRows(series, aggregating.ByPlatformAndDate)
		rows = aggregating.WithPeriodGrowth(rows, rowMetric)
		totals := aggregating.MergeByPlatform(rows)

		logger.WithFields(log.Fields{
			"rows":   len(rows),
			"totals": len(totals),
		}).Debug("analytics: comparison view assembled")

		writeJSON(w, logger, map[string]any{
			"rows":   rows,
			"totals": totals,
		})
	})
}

// GetPlatformShareView devolve a participação de cada plataforma no total
// da métrica escolhida
func GetPlatformShareView(dashboard *fetching.Dashboard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		series, ok := snapshotSeries(dashboard, r, defaultRowsSource)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "fonte de dados indisponível no snapshot", nil)
			return
		}

		rowMetric, err := rowMetricFromRequest(r)
		if err != nil {
			logger.WithField("metric", r.URL.Query().Get("metric")).Warn("analytics: invalid metric parameter")

			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		rows := aggregating.AggregateRows(series, aggregating.ByPlatform)
		shares := aggregating.PlatformShare(rows, rowMetric)

		writeJSON(w, logger, map[string]any{"shares": shares})
	})
}

// GetAttributionView particiona os registros nos cinco níveis de
// atribuição, agrupados por plataforma ou por período
func GetAttributionView(dashboard *fetching.Dashboard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		series, ok := snapshotSeries(dashboard, r, defaultAttributionSource)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "fonte de dados indisponível no snapshot", nil)
			return
		}

		groupBy := r.URL.Query().Get("group_by")
		if groupBy == "" {
			groupBy = "platform"
		}

		var key func(domain.Record) string
		switch groupBy {
		case "platform":
			key = func(r domain.Record) string { return r.Platform }
		case "period":
			key = func(r domain.Record) string { return r.Date }
		default:
			logger.WithField("group_by", groupBy).Warn("analytics: invalid group_by parameter")

			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "group_by deve ser platform ou period", nil)
			return
		}

		buckets := aggregating.BucketAttribution(series, key)

		type bucketView struct {
			domain.AttributionBucket
			Total      int     `json:"total"`
			QualityPct float64 `json:"quality_pct"`
		}

		views := make([]bucketView, 0, len(buckets))
		for _, bucket := range buckets {
			views = append(views, bucketView{
				AttributionBucket: bucket,
				Total:             bucket.Total(),
				QualityPct:        utils.RoundWithTwoDecimalPlace(bucket.QualityPct()),
			})
		}

		writeJSON(w, logger, map[string]any{"buckets": views})
	})
}

// GetTopCampaignsView ordena as campanhas pela métrica escolhida e devolve
// as n primeiras
func GetTopCampaignsView(dashboard *fetching.Dashboard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		series, ok := snapshotSeries(dashboard, r, defaultRowsSource)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "fonte de dados indisponível no snapshot", nil)
			return
		}

		campaignMetric, err := campaignMetricFromRequest(r)
		if err != nil {
			logger.WithField("metric", r.URL.Query().Get("metric")).Warn("analytics: invalid metric parameter")

			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		limit := defaultTopCampaignsLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, convErr := strconv.Atoi(raw)
			if convErr != nil || parsed < 1 {
				logger.WithField("limit", raw).Warn("analytics: invalid limit parameter")

				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "limit deve ser um inteiro positivo", nil)
				return
			}
			limit = parsed
		}

		rows := aggregating.AggregateCampaigns(series)
		ranked := aggregating.TopCampaigns(rows, limit, campaignMetric)

		writeJSON(w, logger, map[string]any{"campaigns": ranked})
	})
}

// GetTimelineView devolve a série de linha do tempo {date -> {platform ->
// valor}} da métrica escolhida
func GetTimelineView(dashboard *fetching.Dashboard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		series, ok := snapshotSeries(dashboard, r, defaultRowsSource)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "fonte de dados indisponível no snapshot", nil)
			return
		}

		metric, err := metricSelectorFromRequest(r)
		if err != nil {
			logger.WithField("metric", r.URL.Query().Get("metric")).Warn("analytics: invalid metric parameter")

			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		timeline := aggregating.BucketByDate(series, metric)

		writeJSON(w, logger, map[string]any{"timeline": timeline})
	})
}

func (req filtersRequest) toQueryParams() (domain.QueryParams, error) {
	params := domain.QueryParams{
		Platforms: req.Platforms,
		Search:    req.Search,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}

	if req.DateFrom != "" {
		from, err := utils.ParseDate(req.DateFrom)
		if err != nil {
			return domain.QueryParams{}, err
		}
		params.DateFrom = from
	}

	if req.DateTo != "" {
		to, err := utils.ParseDate(req.DateTo)
		if err != nil {
			return domain.QueryParams{}, err
		}
		params.DateTo = to
	}

	return params, nil
}

// snapshotSeries resolve a série bruta de uma fonte do snapshot; o
// parâmetro "source" troca a fonte padrão do painel
func snapshotSeries(dashboard *fetching.Dashboard, r *http.Request, fallback string) (domain.RawSeries, bool) {
	source := r.URL.Query().Get("source")
	if source == "" {
		source = fallback
	}

	snapshot := dashboard.Snapshot()
	series, ok := snapshot.Data[source]

	return series, ok
}

func rowMetricFromRequest(r *http.Request) (aggregating.RowMetric, error) {
	switch r.URL.Query().Get("metric") {
	case "", "leads":
		return aggregating.RowLeads, nil
	case "contracts":
		return aggregating.RowContracts, nil
	case "revenue":
		return aggregating.RowRevenue, nil
	case "spend":
		return aggregating.RowSpend, nil
	default:
		return nil, errInvalidMetric
	}
}

func campaignMetricFromRequest(r *http.Request) (aggregating.CampaignMetric, error) {
	switch r.URL.Query().Get("metric") {
	case "", "leads":
		return aggregating.CampaignLeads, nil
	case "contracts":
		return aggregating.CampaignContracts, nil
	case "revenue":
		return aggregating.CampaignRevenue, nil
	case "spend":
		return aggregating.CampaignSpend, nil
	default:
		return nil, errInvalidMetric
	}
}

func metricSelectorFromRequest(r *http.Request) (aggregating.MetricSelector, error) {
	switch r.URL.Query().Get("metric") {
	case "", "leads":
		return aggregating.LeadsOf, nil
	case "contracts":
		return aggregating.ContractsOf, nil
	case "revenue":
		return aggregating.RevenueOf, nil
	case "spend":
		return aggregating.SpendOf, nil
	default:
		return nil, errInvalidMetric
	}
}

var errInvalidMetric = fmt.Errorf("metric deve ser leads, contracts, revenue ou spend")

func writeJSON(w http.ResponseWriter, logger log.Logger, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithField("error", err.Error()).Error("analytics: failed to encode response")
	}
}
