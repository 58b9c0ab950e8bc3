package aggregating

import (
	"sort"

	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

// MergeByPlatform consolida linhas de múltiplos períodos em um resumo por
// plataforma. Os totais absolutos são somados e as taxas (CPL, CPA, ROAS)
// recalculadas a partir dos totais consolidados, nunca pela média
// aritmética das taxas de cada período, que subponderaria períodos de
// volumes diferentes.
func MergeByPlatform(rows []domain.AggregatedRow) []domain.AggregatedRow {
	totals := make(map[string]*domain.AggregatedRow)

	for _, row := range rows {
		merged, exists := totals[row.Platform]
		if !exists {
			merged = &domain.AggregatedRow{Platform: row.Platform}
			totals[row.Platform] = merged
		}

		merged.Leads += row.Leads
		merged.Contracts += row.Contracts
		merged.Revenue += row.Revenue
		merged.Spend += row.Spend
	}

	summaries := make([]domain.AggregatedRow, 0, len(totals))
	for _, merged := range totals {
		summary := *merged
		summary.ROAS = ROAS(summary.Revenue, summary.Spend)
		summary.CPL = CPL(summary.Spend, summary.Leads)
		summary.CPA = CPA(summary.Spend, summary.Contracts)
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Platform < summaries[j].Platform
	})

	return summaries
}

// WithPeriodGrowth preenche GrowthPct comparando cada linha com a linha do
// período imediatamente anterior da mesma plataforma. A primeira linha de
// cada plataforma fica sem variação (nil), pois não há base de comparação.
func WithPeriodGrowth(rows []domain.AggregatedRow, metric func(domain.AggregatedRow) float64) []domain.AggregatedRow {
	ordered := make([]domain.AggregatedRow, len(rows))
	copy(ordered, rows)

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Platform != ordered[j].Platform {
			return ordered[i].Platform < ordered[j].Platform
		}
		return ordered[i].Period < ordered[j].Period
	})

	previous := make(map[string]float64)
	hasPrevious := make(map[string]bool)

	for i := range ordered {
		current := metric(ordered[i])

		if hasPrevious[ordered[i].Platform] {
			ordered[i].GrowthPct = GrowthPct(current, previous[ordered[i].Platform])
		}

		previous[ordered[i].Platform] = current
		hasPrevious[ordered[i].Platform] = true
	}

	return ordered
}

// ShareRow é a participação percentual de uma plataforma em uma métrica
type ShareRow struct {
	Platform string  `json:"platform"`
	Value    float64 `json:"value"`
	SharePct float64 `json:"share_pct"`
}

// PlatformShare calcula a participação de cada plataforma no total da
// métrica escolhida, ordenada da maior para a menor participação
func PlatformShare(rows []domain.AggregatedRow, metric func(domain.AggregatedRow) float64) []ShareRow {
	merged := MergeByPlatform(rows)

	total := 0.0
	for _, row := range merged {
		total += metric(row)
	}

	shares := make([]ShareRow, 0, len(merged))
	for _, row := range merged {
		share := ShareRow{Platform: row.Platform, Value: metric(row)}
		if total > 0 {
			share.SharePct = share.Value / total * 100
		}
		shares = append(shares, share)
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].SharePct != shares[j].SharePct {
			return shares[i].SharePct > shares[j].SharePct
		}
		return shares[i].Platform < shares[j].Platform
	})

	return shares
}
