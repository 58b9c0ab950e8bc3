package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics reúne os contadores Prometheus do núcleo de agregação
type Metrics struct {
	// Cache de respostas
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	CacheEvictions    prometheus.Counter
	SingleFlightJoins prometheus.Counter

	// Fan-out por fonte
	SourceFetches  *prometheus.CounterVec
	StaleDiscards  prometheus.Counter
	LeadsThrottled prometheus.Counter
}

// Default é a instância global registrada no registrador padrão
var Default = New("marketing_analytics")

// New cria e registra os contadores do núcleo
func New(namespace string) *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total de consultas servidas pelo cache de respostas",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total de consultas que exigiram chamada ao produtor",
		}),
		CacheEvictions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Total de entradas removidas por limite de capacidade",
		}),
		SingleFlightJoins: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "single_flight_joins_total",
			Help:      "Total de chamadas que compartilharam uma busca em voo",
		}),
		SourceFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_fetches_total",
			Help:      "Total de buscas por fonte e desfecho",
		}, []string{"source", "status"}),
		StaleDiscards: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_discarded_total",
			Help:      "Total de resultados descartados por supersessão do contexto",
		}),
		LeadsThrottled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leads_throttled_total",
			Help:      "Total de submissões de lead recusadas pelo limitador",
		}),
	}
}

// Handler expõe o endpoint /metrics do registrador padrão
func Handler() http.Handler {
	return promhttp.Handler()
}
