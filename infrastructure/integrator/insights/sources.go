package insights

import (
	"context"

	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/fetching"
)

// Nomes das fontes registradas no orquestrador
const (
	SourceKPITotals          = "kpi_totals"
	SourceLeadsTrend         = "leads_trend"
	SourceSpendTrend         = "spend_trend"
	SourceCampaigns          = "campaigns"
	SourceUTMRows            = "utm_rows"
	SourcePlatformShare      = "platform_share"
	SourceTopCampaigns       = "top_campaigns"
	SourceContractsEnriched  = "contracts_enriched"
	SourceAttributionQuality = "attribution_quality"
)

// Source adapta um endpoint remoto à interface SourceFetcher
type Source struct {
	name     string
	endpoint string
	client   Client
}

// NewSource cria uma fonte nomeada sobre um endpoint do cliente
func NewSource(name, endpoint string, client Client) *Source {
	return &Source{
		name:     name,
		endpoint: endpoint,
		client:   client,
	}
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Fetch(ctx context.Context, q domain.QueryContext) (domain.RawSeries, error) {
	return s.client.FetchSeries(ctx, s.endpoint, q)
}

// DefaultSources registra as nove fontes dos painéis de marketing sobre o
// cliente informado
func DefaultSources(client Client) []fetching.SourceFetcher {
	return []fetching.SourceFetcher{
		NewSource(SourceKPITotals, "/v1/analytics/kpis", client),
		NewSource(SourceLeadsTrend, "/v1/analytics/leads-trend", client),
		NewSource(SourceSpendTrend, "/v1/analytics/spend-trend", client),
		NewSource(SourceCampaigns, "/v1/analytics/campaigns", client),
		NewSource(SourceUTMRows, "/v1/analytics/utm", client),
		NewSource(SourcePlatformShare, "/v1/analytics/platform-share", client),
		NewSource(SourceTopCampaigns, "/v1/analytics/top-campaigns", client),
		NewSource(SourceContractsEnriched, "/v1/analytics/contracts", client),
		NewSource(SourceAttributionQuality, "/v1/analytics/attribution", client),
	}
}
