package domain

// AggregatedRow é uma linha derivada por agregação: totais absolutos por
// (plataforma, período) e taxas recalculadas a partir desses totais.
// É recomputada por completo a cada ciclo, nunca acumulada entre ciclos.
type AggregatedRow struct {
	Platform  string  `json:"platform"`
	Period    string  `json:"period,omitempty"`
	Leads     int     `json:"leads"`
	Contracts int     `json:"contracts"`
	Revenue   float64 `json:"revenue"`
	Spend     float64 `json:"spend"`

	// Taxas derivadas; nil quando o denominador é zero (renderizar "N/A")
	ROAS      *float64 `json:"roas"`
	CPL       *float64 `json:"cpl"`
	CPA       *float64 `json:"cpa"`
	GrowthPct *float64 `json:"growth_pct,omitempty"`
}

// CampaignRow é uma linha agregada por campanha, usada nos rankings de
// desempenho. Mesma regra das demais linhas: totais absolutos somados e
// taxas derivadas dos totais.
type CampaignRow struct {
	Campaign  string  `json:"campaign"`
	Leads     int     `json:"leads"`
	Contracts int     `json:"contracts"`
	Revenue   float64 `json:"revenue"`
	Spend     float64 `json:"spend"`

	ROAS *float64 `json:"roas"`
	CPL  *float64 `json:"cpl"`
	CPA  *float64 `json:"cpa"`
}

// AttributionTier são os cinco níveis de qualidade de atribuição, em ordem
// de precedência decrescente
type AttributionTier string

const (
	TierCampaignMatch    AttributionTier = "campaign_match"
	TierPlatformDetected AttributionTier = "platform_detected"
	TierUTMAttribution   AttributionTier = "utm_attribution"
	TierCRMManual        AttributionTier = "crm_manual"
	TierUnattributed     AttributionTier = "unattributed"
)

// AttributionBucket particiona os registros de um agrupamento (período ou
// plataforma) nos cinco níveis mutuamente exclusivos de atribuição.
// Invariante: a soma dos cinco contadores é o total de registros do bucket.
type AttributionBucket struct {
	Key              string `json:"key"`
	CampaignMatch    int    `json:"campaign_match"`
	PlatformDetected int    `json:"platform_detected"`
	UTMAttribution   int    `json:"utm_attribution"`
	CRMManual        int    `json:"crm_manual"`
	Unattributed     int    `json:"unattributed"`
}

// Total é o número de registros particionados no bucket
func (b AttributionBucket) Total() int {
	return b.CampaignMatch + b.PlatformDetected + b.UTMAttribution + b.CRMManual + b.Unattributed
}

// QualityPct é o percentual de registros atribuídos pelos dois níveis mais
// diretos (campanha casada ou plataforma detectada)
func (b AttributionBucket) QualityPct() float64 {
	total := b.Total()
	if total == 0 {
		return 0
	}

	return float64(b.CampaignMatch+b.PlatformDetected) / float64(total) * 100
}
