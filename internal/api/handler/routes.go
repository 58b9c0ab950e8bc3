package handler

import (
	"net/http"

	"github.com/vfg2006/marketing-analytics-api/internal/api/handler/router"
	"github.com/vfg2006/marketing-analytics-api/internal/metrics"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/fetching"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/leadcapture"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Analytics(dashboard *fetching.Dashboard) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/analytics/dashboard",
			Method:  http.MethodGet,
			Handler: GetDashboard(dashboard),
		},
		{
			Path:    "/v1/analytics/filters",
			Method:  http.MethodPut,
			Handler: UpdateFilters(dashboard),
		},
		{
			Path:    "/v1/analytics/refetch",
			Method:  http.MethodPost,
			Handler: RefetchDashboard(dashboard),
		},
		{
			Path:    "/v1/analytics/views/comparison",
			Method:  http.MethodGet,
			Handler: GetComparisonView(dashboard),
		},
		{
			Path:    "/v1/analytics/views/platform-share",
			Method:  http.MethodGet,
			Handler: GetPlatformShareView(dashboard),
		},
		{
			Path:    "/v1/analytics/views/attribution",
			Method:  http.MethodGet,
			Handler: GetAttributionView(dashboard),
		},
		{
			Path:    "/v1/analytics/views/top-campaigns",
			Method:  http.MethodGet,
			Handler: GetTopCampaignsView(dashboard),
		},
		{
			Path:    "/v1/analytics/views/timeline",
			Method:  http.MethodGet,
			Handler: GetTimelineView(dashboard),
		},
	}
}

func Leads(service *leadcapture.LeadService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/leads",
			Method:  http.MethodPost,
			Handler: SubmitLead(service),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metrics.Handler(),
		},
	}
}
