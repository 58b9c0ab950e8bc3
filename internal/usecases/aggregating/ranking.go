package aggregating

import (
	"sort"

	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

// RowMetric extrai de uma linha agregada o valor da métrica de ordenação
type RowMetric func(domain.AggregatedRow) float64

// Seletores das métricas de ordenação usadas pelos rankings
var (
	RowLeads     = func(r domain.AggregatedRow) float64 { return float64(r.Leads) }
	RowContracts = func(r domain.AggregatedRow) float64 { return float64(r.Contracts) }
	RowRevenue   = func(r domain.AggregatedRow) float64 { return r.Revenue }
	RowSpend     = func(r domain.AggregatedRow) float64 { return r.Spend }
)

// TopN ordena as linhas pela métrica escolhida em ordem decrescente e
// devolve as n primeiras. Empates são desfeitos por contratos (decrescente)
// e em seguida pelo nome da plataforma (crescente) para que o ranking seja
// determinístico.
func TopN(rows []domain.AggregatedRow, n int, metric RowMetric) []domain.AggregatedRow {
	ranked := make([]domain.AggregatedRow, len(rows))
	copy(ranked, rows)

	sort.Slice(ranked, func(i, j int) bool {
		left, right := metric(ranked[i]), metric(ranked[j])
		if left != right {
			return left > right
		}

		if ranked[i].Contracts != ranked[j].Contracts {
			return ranked[i].Contracts > ranked[j].Contracts
		}

		return ranked[i].Platform < ranked[j].Platform
	})

	if n < 0 || n > len(ranked) {
		n = len(ranked)
	}

	return ranked[:n]
}
