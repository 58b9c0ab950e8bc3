package aggregating

import (
	"github.com/vfg2006/marketing-analytics-api/pkg/utils"
)

// Ratio divide num por den arredondando em duas casas; devolve nil quando
// o denominador é zero. nil significa "sem base de cálculo": os
// consumidores renderizam "N/A", nunca zero ou infinito.
func Ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}

	value := utils.RoundWithTwoDecimalPlace(num / den)
	return &value
}

// ROAS é o retorno sobre o investimento em mídia: receita / gasto
func ROAS(revenue, spend float64) *float64 {
	return Ratio(revenue, spend)
}

// CPL é o custo por lead: gasto / leads
func CPL(spend float64, leads int) *float64 {
	return Ratio(spend, float64(leads))
}

// CPA é o custo por contrato fechado: gasto / contratos
func CPA(spend float64, contracts int) *float64 {
	return Ratio(spend, float64(contracts))
}

// GrowthPct é a variação percentual entre o período atual e o anterior.
// Sem base de comparação (anterior <= 0) o resultado é nil, não zero.
func GrowthPct(curr, prev float64) *float64 {
	if prev <= 0 {
		return nil
	}

	value := utils.RoundWithTwoDecimalPlace((curr - prev) / prev * 100)
	return &value
}
