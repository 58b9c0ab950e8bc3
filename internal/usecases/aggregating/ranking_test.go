package aggregating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

func TestTopN(t *testing.T) {
	rows := []domain.AggregatedRow{
		{Platform: "campanha-a", Leads: 10, Contracts: 2},
		{Platform: "campanha-b", Leads: 30, Contracts: 5},
		{Platform: "campanha-c", Leads: 20, Contracts: 4},
		{Platform: "campanha-d", Leads: 5, Contracts: 1},
	}

	ranked := TopN(rows, 2, RowLeads)
	require.Len(t, ranked, 2)

	assert.Equal(t, "campanha-b", ranked[0].Platform)
	assert.Equal(t, "campanha-c", ranked[1].Platform)
}

func TestTopN_DesempateDeterministico(t *testing.T) {
	rows := []domain.AggregatedRow{
		{Platform: "campanha-b", Leads: 10, Contracts: 2},
		{Platform: "campanha-a", Leads: 10, Contracts: 2},
		{Platform: "campanha-c", Leads: 10, Contracts: 5},
	}

	ranked := TopN(rows, 3, RowLeads)
	require.Len(t, ranked, 3)

	// Empate na métrica: mais contratos primeiro, depois ordem alfabética
	assert.Equal(t, "campanha-c", ranked[0].Platform)
	assert.Equal(t, "campanha-a", ranked[1].Platform)
	assert.Equal(t, "campanha-b", ranked[2].Platform)
}

func TestTopN_LimiteMaiorQueAsLinhas(t *testing.T) {
	rows := []domain.AggregatedRow{
		{Platform: "campanha-a", Revenue: 100},
	}

	ranked := TopN(rows, 10, RowRevenue)
	assert.Len(t, ranked, 1)
}

func TestTopN_NaoMutaAEntrada(t *testing.T) {
	rows := []domain.AggregatedRow{
		{Platform: "campanha-b", Leads: 1},
		{Platform: "campanha-a", Leads: 2},
	}

	_ = TopN(rows, 2, RowLeads)

	assert.Equal(t, "campanha-b", rows[0].Platform)
}
