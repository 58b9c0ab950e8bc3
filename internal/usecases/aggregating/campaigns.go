package aggregating

import (
	"sort"

	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

// CampaignMetric extrai de uma linha de campanha o valor da métrica de
// ordenação
type CampaignMetric func(domain.CampaignRow) float64

// Seletores das métricas usadas pelos rankings de campanha
var (
	CampaignLeads     = func(r domain.CampaignRow) float64 { return float64(r.Leads) }
	CampaignContracts = func(r domain.CampaignRow) float64 { return float64(r.Contracts) }
	CampaignRevenue   = func(r domain.CampaignRow) float64 { return r.Revenue }
	CampaignSpend     = func(r domain.CampaignRow) float64 { return r.Spend }
)

// AggregateCampaigns acumula os totais absolutos por campanha e deriva as
// taxas (ROAS, CPL, CPA) a partir dos totais. As linhas saem em ordem
// alfabética de campanha para resultado determinístico.
func AggregateCampaigns(series domain.RawSeries) []domain.CampaignRow {
	totals := make(map[string]*domain.CampaignRow)

	for _, record := range series {
		row, exists := totals[record.Campaign]
		if !exists {
			row = &domain.CampaignRow{Campaign: record.Campaign}
			totals[record.Campaign] = row
		}

		row.Leads += record.Leads
		row.Contracts += record.Contracts
		row.Revenue += record.Revenue
		row.Spend += record.Spend
	}

	rows := make([]domain.CampaignRow, 0, len(totals))
	for _, row := range totals {
		finalized := *row
		finalized.ROAS = ROAS(finalized.Revenue, finalized.Spend)
		finalized.CPL = CPL(finalized.Spend, finalized.Leads)
		finalized.CPA = CPA(finalized.Spend, finalized.Contracts)
		rows = append(rows, finalized)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Campaign < rows[j].Campaign
	})

	return rows
}

// TopCampaigns ordena as campanhas pela métrica escolhida em ordem
// decrescente e devolve as n primeiras. Empates são desfeitos por
// contratos (decrescente) e em seguida pelo nome da campanha (crescente).
func TopCampaigns(rows []domain.CampaignRow, n int, metric CampaignMetric) []domain.CampaignRow {
	ranked := make([]domain.CampaignRow, len(rows))
	copy(ranked, rows)

	sort.Slice(ranked, func(i, j int) bool {
		left, right := metric(ranked[i]), metric(ranked[j])
		if left != right {
			return left > right
		}

		if ranked[i].Contracts != ranked[j].Contracts {
			return ranked[i].Contracts > ranked[j].Contracts
		}

		return ranked[i].Campaign < ranked[j].Campaign
	})

	if n < 0 || n > len(ranked) {
		n = len(ranked)
	}

	return ranked[:n]
}
