package aggregating

import (
	"sort"
	"strings"

	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

// ClassifyRecord determina o nível de atribuição de um registro pela ordem
// fixa de precedência: campanha casada > plataforma detectada > UTM
// presente > origem manual no CRM > sem atribuição. Um registro pertence a
// exatamente um nível.
func ClassifyRecord(r domain.Record) domain.AttributionTier {
	switch {
	case strings.TrimSpace(r.Campaign) != "":
		return domain.TierCampaignMatch
	case strings.TrimSpace(r.Platform) != "":
		return domain.TierPlatformDetected
	case hasUTM(r):
		return domain.TierUTMAttribution
	case strings.TrimSpace(r.CRMOrigin) != "":
		return domain.TierCRMManual
	default:
		return domain.TierUnattributed
	}
}

// BucketAttribution particiona a série nos cinco níveis de atribuição,
// agrupada pela chave escolhida (período ou plataforma). A soma dos cinco
// contadores de cada bucket é sempre o total de registros do agrupamento.
func BucketAttribution(series domain.RawSeries, key func(domain.Record) string) []domain.AttributionBucket {
	buckets := make(map[string]*domain.AttributionBucket)

	for _, record := range series {
		k := key(record)

		bucket, exists := buckets[k]
		if !exists {
			bucket = &domain.AttributionBucket{Key: k}
			buckets[k] = bucket
		}

		switch ClassifyRecord(record) {
		case domain.TierCampaignMatch:
			bucket.CampaignMatch++
		case domain.TierPlatformDetected:
			bucket.PlatformDetected++
		case domain.TierUTMAttribution:
			bucket.UTMAttribution++
		case domain.TierCRMManual:
			bucket.CRMManual++
		default:
			bucket.Unattributed++
		}
	}

	partitioned := make([]domain.AttributionBucket, 0, len(buckets))
	for _, bucket := range buckets {
		partitioned = append(partitioned, *bucket)
	}

	sort.Slice(partitioned, func(i, j int) bool {
		return partitioned[i].Key < partitioned[j].Key
	})

	return partitioned
}

func hasUTM(r domain.Record) bool {
	return strings.TrimSpace(r.UTMSource) != "" ||
		strings.TrimSpace(r.UTMMedium) != "" ||
		strings.TrimSpace(r.UTMCampaign) != ""
}
