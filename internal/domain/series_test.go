package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_PreservaCamposExtras(t *testing.T) {
	payload := []byte(`{
		"date": "2026-01-15",
		"platform": "google",
		"leads": 12,
		"spend": 350.5,
		"impressions": 48210,
		"quality_score": {"avg": 7.3}
	}`)

	var record Record
	require.NoError(t, json.Unmarshal(payload, &record))

	assert.Equal(t, "2026-01-15", record.Date)
	assert.Equal(t, "google", record.Platform)
	assert.Equal(t, 12, record.Leads)
	assert.Equal(t, 350.5, record.Spend)

	// Campos desconhecidos não são descartados nem interpretados
	require.Contains(t, record.Extra, "impressions")
	require.Contains(t, record.Extra, "quality_score")
	assert.NotContains(t, record.Extra, "platform")

	encoded, err := json.Marshal(record)
	require.NoError(t, err)

	var roundTrip map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(encoded, &roundTrip))

	assert.JSONEq(t, `48210`, string(roundTrip["impressions"]))
	assert.JSONEq(t, `{"avg": 7.3}`, string(roundTrip["quality_score"]))
}

func TestRecord_SemCamposExtras(t *testing.T) {
	var record Record
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2026-01-15","leads":3}`), &record))

	assert.Nil(t, record.Extra)
}
