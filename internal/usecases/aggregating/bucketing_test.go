package aggregating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

func TestBucketByDate(t *testing.T) {
	series := domain.RawSeries{
		{Date: "2026-01-01", Platform: "google", Leads: 5},
		{Date: "2026-01-01", Platform: "facebook", Leads: 3},
		{Date: "2026-01-02", Platform: "google", Leads: 7},
		// Mesma dupla (data, plataforma): acumula por soma
		{Date: "2026-01-01", Platform: "google", Leads: 2},
	}

	timeline := BucketByDate(series, LeadsOf)

	require.Len(t, timeline, 2)
	assert.Equal(t, 7.0, timeline["2026-01-01"]["google"])
	assert.Equal(t, 3.0, timeline["2026-01-01"]["facebook"])
	assert.Equal(t, 7.0, timeline["2026-01-02"]["google"])
}

func TestAggregateRows_PorPlataforma(t *testing.T) {
	series := domain.RawSeries{
		{Date: "2026-01-01", Platform: "google", Leads: 10, Contracts: 2, Revenue: 2000, Spend: 500},
		{Date: "2026-01-02", Platform: "google", Leads: 10, Contracts: 3, Revenue: 3000, Spend: 500},
		{Date: "2026-01-01", Platform: "facebook", Leads: 8, Contracts: 1, Revenue: 900, Spend: 300},
	}

	rows := AggregateRows(series, ByPlatform)
	require.Len(t, rows, 2)

	assert.Equal(t, "facebook", rows[0].Platform)
	assert.Equal(t, "google", rows[1].Platform)

	// Totais absolutos somados e taxas derivadas dos totais
	assert.Equal(t, 20, rows[1].Leads)
	assert.Equal(t, 5, rows[1].Contracts)
	assert.Equal(t, 5000.0, rows[1].Revenue)
	assert.Equal(t, 1000.0, rows[1].Spend)

	require.NotNil(t, rows[1].ROAS)
	assert.Equal(t, 5.0, *rows[1].ROAS)
	require.NotNil(t, rows[1].CPL)
	assert.Equal(t, 50.0, *rows[1].CPL)
	require.NotNil(t, rows[1].CPA)
	assert.Equal(t, 200.0, *rows[1].CPA)
}

func TestAggregateRows_PorPlataformaEDia(t *testing.T) {
	series := domain.RawSeries{
		{Date: "2026-01-02", Platform: "google", Leads: 4},
		{Date: "2026-01-01", Platform: "google", Leads: 6},
		{Date: "2026-01-01", Platform: "facebook", Leads: 2},
	}

	rows := AggregateRows(series, ByPlatformAndDate)
	require.Len(t, rows, 3)

	// Saída determinística: período primeiro, plataforma depois
	assert.Equal(t, "2026-01-01", rows[0].Period)
	assert.Equal(t, "facebook", rows[0].Platform)
	assert.Equal(t, "2026-01-01", rows[1].Period)
	assert.Equal(t, "google", rows[1].Platform)
	assert.Equal(t, "2026-01-02", rows[2].Period)
}

func TestAggregateRows_SemRegistros(t *testing.T) {
	rows := AggregateRows(domain.RawSeries{}, ByPlatform)
	assert.Empty(t, rows)
}
