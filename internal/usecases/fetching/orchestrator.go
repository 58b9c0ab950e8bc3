package fetching

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/metrics"
)

// DefaultSourceTimeout é o prazo individual de cada fonte quando nenhum é
// configurado
const DefaultSourceTimeout = 30 * time.Second

// Orchestrator dispara todas as fontes registradas de forma concorrente
// para um QueryContext, isola a falha de cada uma e monta o resultado
// combinado com o desfecho por fonte. Uma fonte lenta ou com erro nunca
// bloqueia nem derruba as irmãs.
type Orchestrator struct {
	cache         *ResponseCache
	sources       []SourceFetcher
	sourceTimeout time.Duration
}

// NewOrchestrator cria um orquestrador sobre o cache e as fontes informadas
func NewOrchestrator(cache *ResponseCache, sources []SourceFetcher, sourceTimeout time.Duration) *Orchestrator {
	if sourceTimeout <= 0 {
		sourceTimeout = DefaultSourceTimeout
	}

	return &Orchestrator{
		cache:         cache,
		sources:       sources,
		sourceTimeout: sourceTimeout,
	}
}

// Sources devolve as fontes registradas
func (o *Orchestrator) Sources() []SourceFetcher {
	return o.sources
}

// SourceKeys devolve as chaves de cache do contexto para todas as fontes
// registradas
func (o *Orchestrator) SourceKeys(q domain.QueryContext) []string {
	keys := make([]string, 0, len(o.sources))
	for _, source := range o.sources {
		keys = append(keys, q.SourceCacheKey(source.Name()))
	}

	return keys
}

// Run valida o contexto e dispara o fan-out: todas as fontes partem sem
// esperar umas pelas outras e o orquestrador aguarda a liquidação de
// todas. Falhas individuais viram FetchResult rejeitado; o único erro que
// Run devolve é a invalidez do próprio QueryContext.
func (o *Orchestrator) Run(ctx context.Context, q domain.QueryContext) (*domain.OrchestratorResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]domain.FetchResult, len(o.sources))
	)

	for _, source := range o.sources {
		wg.Add(1)

		go func(source SourceFetcher) {
			defer wg.Done()

			result := o.fetchOne(ctx, source, q)

			mu.Lock()
			results[source.Name()] = result
			mu.Unlock()
		}(source)
	}

	wg.Wait()

	anyFulfilled := false
	for _, result := range results {
		if result.Fulfilled() {
			anyFulfilled = true
			break
		}
	}

	return &domain.OrchestratorResult{
		Context:         q,
		ResultsBySource: results,
		AnyFulfilled:    anyFulfilled,
	}, nil
}

// fetchOne busca uma fonte com prazo próprio, passando pelo cache com
// deduplicação single-flight. Um panic da fonte é convertido em falha da
// própria fonte.
func (o *Orchestrator) fetchOne(ctx context.Context, source SourceFetcher, q domain.QueryContext) (result domain.FetchResult) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logrus.WithFields(logrus.Fields{
				"source": source.Name(),
				"panic":  recovered,
			}).Error("Panic ao buscar dados da fonte")

			result = domain.FetchResult{
				Source:       source.Name(),
				Status:       domain.FetchRejected,
				ErrorMessage: fmt.Sprintf("panic: %v", recovered),
			}
			metrics.Default.SourceFetches.WithLabelValues(source.Name(), string(domain.FetchRejected)).Inc()
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, o.sourceTimeout)
	defer cancel()

	key := q.SourceCacheKey(source.Name())

	series, err := o.cache.GetOrFetch(fetchCtx, key, func() (domain.RawSeries, error) {
		return source.Fetch(fetchCtx, q)
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"source":    source.Name(),
			"cache_key": key,
		}).Warn("Erro ao buscar dados da fonte")

		metrics.Default.SourceFetches.WithLabelValues(source.Name(), string(domain.FetchRejected)).Inc()

		return domain.FetchResult{
			Source:       source.Name(),
			Status:       domain.FetchRejected,
			ErrorMessage: err.Error(),
		}
	}

	metrics.Default.SourceFetches.WithLabelValues(source.Name(), string(domain.FetchFulfilled)).Inc()

	return domain.FetchResult{
		Source: source.Name(),
		Status: domain.FetchFulfilled,
		Series: series,
	}
}
