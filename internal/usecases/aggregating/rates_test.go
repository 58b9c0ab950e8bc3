package aggregating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		num      float64
		den      float64
		expected *float64
	}{
		{
			name:     "denominador zero devolve nil, não zero nem infinito",
			num:      120,
			den:      0,
			expected: nil,
		},
		{
			name:     "divisão exata",
			num:      300,
			den:      20,
			expected: floatPtr(15),
		},
		{
			name:     "resultado arredondado em duas casas",
			num:      10,
			den:      3,
			expected: floatPtr(3.33),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Ratio(tt.num, tt.den)

			if tt.expected == nil {
				assert.Nil(t, result)
				return
			}

			require.NotNil(t, result)
			assert.Equal(t, *tt.expected, *result)
		})
	}
}

func TestDerivedRates(t *testing.T) {
	roas := ROAS(5000, 1250)
	require.NotNil(t, roas)
	assert.Equal(t, 4.0, *roas)

	assert.Nil(t, ROAS(5000, 0))

	cpl := CPL(400, 16)
	require.NotNil(t, cpl)
	assert.Equal(t, 25.0, *cpl)

	assert.Nil(t, CPL(400, 0))

	cpa := CPA(400, 8)
	require.NotNil(t, cpa)
	assert.Equal(t, 50.0, *cpa)

	assert.Nil(t, CPA(400, 0))
}

func TestGrowthPct(t *testing.T) {
	tests := []struct {
		name     string
		curr     float64
		prev     float64
		expected *float64
	}{
		{
			name:     "sem período anterior devolve nil",
			curr:     120,
			prev:     0,
			expected: nil,
		},
		{
			name:     "ambos zero também é nil",
			curr:     0,
			prev:     0,
			expected: nil,
		},
		{
			name:     "crescimento de 50 por cento",
			curr:     150,
			prev:     100,
			expected: floatPtr(50),
		},
		{
			name:     "queda é variação negativa",
			curr:     80,
			prev:     100,
			expected: floatPtr(-20),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GrowthPct(tt.curr, tt.prev)

			if tt.expected == nil {
				assert.Nil(t, result)
				return
			}

			require.NotNil(t, result)
			assert.Equal(t, *tt.expected, *result)
		})
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
