package aggregating

import (
	"sort"

	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

// MetricSelector extrai de um registro o valor da métrica a agrupar
type MetricSelector func(domain.Record) float64

// Seletores das métricas absolutas usadas pelos painéis
var (
	LeadsOf     = func(r domain.Record) float64 { return float64(r.Leads) }
	ContractsOf = func(r domain.Record) float64 { return float64(r.Contracts) }
	RevenueOf   = func(r domain.Record) float64 { return r.Revenue }
	SpendOf     = func(r domain.Record) float64 { return r.Spend }
)

// BucketByDate agrupa registros planos {date, platform, métrica} em
// {date -> {platform -> métrica}} para as séries de linha do tempo.
// Registros que compartilham (date, platform) acumulam por soma.
func BucketByDate(series domain.RawSeries, metric MetricSelector) map[string]map[string]float64 {
	buckets := make(map[string]map[string]float64)

	for _, record := range series {
		platforms, exists := buckets[record.Date]
		if !exists {
			platforms = make(map[string]float64)
			buckets[record.Date] = platforms
		}

		platforms[record.Platform] += metric(record)
	}

	return buckets
}

// GroupKey extrai de um registro a dupla (plataforma, período) de
// agrupamento. Período vazio agrega o intervalo inteiro.
type GroupKey func(domain.Record) (platform, period string)

// ByPlatform agrupa somente por plataforma
func ByPlatform(r domain.Record) (string, string) {
	return r.Platform, ""
}

// ByPlatformAndDate agrupa por plataforma e dia
func ByPlatformAndDate(r domain.Record) (string, string) {
	return r.Platform, r.Date
}

// ByDate agrupa somente por dia
func ByDate(r domain.Record) (string, string) {
	return "", r.Date
}

// AggregateRows acumula os totais absolutos de cada grupo e deriva as
// taxas (ROAS, CPL, CPA) a partir dos totais acumulados. As linhas saem
// ordenadas por período e plataforma para resultado determinístico.
func AggregateRows(series domain.RawSeries, key GroupKey) []domain.AggregatedRow {
	type groupID struct {
		platform string
		period   string
	}

	totals := make(map[groupID]*domain.AggregatedRow)

	for _, record := range series {
		platform, period := key(record)
		id := groupID{platform: platform, period: period}

		row, exists := totals[id]
		if !exists {
			row = &domain.AggregatedRow{Platform: platform, Period: period}
			totals[id] = row
		}

		row.Leads += record.Leads
		row.Contracts += record.Contracts
		row.Revenue += record.Revenue
		row.Spend += record.Spend
	}

	rows := make([]domain.AggregatedRow, 0, len(totals))
	for _, row := range totals {
		finalized := *row
		finalized.ROAS = ROAS(finalized.Revenue, finalized.Spend)
		finalized.CPL = CPL(finalized.Spend, finalized.Leads)
		finalized.CPA = CPA(finalized.Spend, finalized.Contracts)
		rows = append(rows, finalized)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Period != rows[j].Period {
			return rows[i].Period < rows[j].Period
		}
		return rows[i].Platform < rows[j].Platform
	})

	return rows
}
