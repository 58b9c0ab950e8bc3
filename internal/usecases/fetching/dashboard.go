package fetching

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/metrics"
	"github.com/vfg2006/marketing-analytics-api/pkg/utils"
)

// Dashboard mantém o QueryContext ativo e o último snapshot liquidado,
// expostos à camada de apresentação. Cada mudança de filtro supersede o
// ciclo em voo: o contexto do ciclo anterior é cancelado e qualquer
// liquidação tardia dele é descartada pela guarda de staleness, para que
// um resultado antigo nunca sobrescreva um estado mais novo.
type Dashboard struct {
	mu           sync.Mutex
	orchestrator *Orchestrator
	cache        *ResponseCache

	root          context.Context
	active        domain.QueryContext
	activeCycleID string
	cancelCycle   context.CancelFunc

	snapshot domain.DashboardSnapshot
}

// NewDashboard cria o painel com o contexto de consulta inicial
func NewDashboard(orchestrator *Orchestrator, cache *ResponseCache, initial domain.QueryContext) *Dashboard {
	return &Dashboard{
		orchestrator: orchestrator,
		cache:        cache,
		root:         context.Background(),
		active:       initial,
		snapshot: domain.DashboardSnapshot{
			Data:          make(map[string]domain.RawSeries),
			PartialErrors: make(map[string]string),
			State:         domain.CycleIdle,
			Filters:       initial,
		},
	}
}

// Start amarra os ciclos ao contexto da aplicação e dispara o ciclo
// inicial
func (d *Dashboard) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.root = ctx
	d.startCycleLocked(true)
}

// Snapshot devolve uma cópia do estado atual do painel
func (d *Dashboard) Snapshot() domain.DashboardSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.snapshot.Clone()
}

// Filters devolve o QueryContext ativo
func (d *Dashboard) Filters() domain.QueryContext {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.active
}

// SetFilters aplica parâmetros parciais sobre o contexto ativo. Um
// contexto logicamente novo inicia um novo ciclo; parâmetros que
// serializam para a mesma chave canônica não reiniciam nada.
func (d *Dashboard) SetFilters(params domain.QueryParams) domain.QueryContext {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.active.Merge(params)
	if next.Equal(d.active) && d.snapshot.State != domain.CycleIdle {
		return d.active
	}

	d.active = next
	d.startCycleLocked(true)

	return next
}

// Refetch invalida as entradas de cache do contexto ativo e inicia um novo
// ciclo, garantindo que fontes que falharam sejam tentadas de novo. O
// ciclo anterior não é cancelado: as chaves são as mesmas, então uma busca
// ainda em voo continua válida e o novo ciclo compartilha a liquidação
// dela em vez de herdar um cancelamento.
func (d *Dashboard) Refetch() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cache.Invalidate(d.orchestrator.SourceKeys(d.active)...)
	d.startCycleLocked(false)
}

// startCycleLocked dispara um novo ciclo, tornando o anterior stale.
// cancelPrevious cancela também o contexto do ciclo anterior; só é seguro
// quando as chaves de cache mudam, pois uma busca em voo da mesma chave
// seria compartilhada pelo novo ciclo e liquidaria com o cancelamento
// herdado. Chamado com o mutex já adquirido.
func (d *Dashboard) startCycleLocked(cancelPrevious bool) {
	if cancelPrevious && d.cancelCycle != nil {
		d.cancelCycle()
	}

	cycleID, err := utils.GenerateID()
	if err != nil {
		cycleID = strconv.FormatInt(time.Now().UnixNano(), 36)
	}

	cycleCtx, cancel := context.WithCancel(d.root)
	d.activeCycleID = cycleID
	d.cancelCycle = cancel

	d.snapshot.Loading = true
	d.snapshot.State = domain.CycleFetching
	d.snapshot.CycleID = cycleID
	d.snapshot.Filters = d.active

	q := d.active

	logrus.WithFields(logrus.Fields{
		"cycle_id":  cycleID,
		"cache_key": q.CacheKey(),
	}).Debug("Iniciando ciclo de fetch do painel")

	go func() {
		// O contexto do ciclo é liberado quando a orquestração liquida
		defer cancel()

		result, runErr := d.orchestrator.Run(cycleCtx, q)
		d.apply(cycleID, q, result, runErr)
	}()
}

// apply liquida um ciclo no snapshot. A guarda de staleness compara o
// identificador do ciclo com o ativo: liquidações de ciclos superseded são
// descartadas em silêncio, sem virar erro.
func (d *Dashboard) apply(cycleID string, q domain.QueryContext, result *domain.OrchestratorResult, runErr error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cycleID != d.activeCycleID {
		metrics.Default.StaleDiscards.Inc()
		logrus.WithField("cycle_id", cycleID).Debug("Resultado de ciclo superseded descartado")
		return
	}

	next := d.snapshot.Clone()
	next.Loading = false
	next.PartialErrors = make(map[string]string)
	next.Error = ""
	next.Filters = q
	next.UpdatedAt = time.Now()

	// Falha de orquestração: nenhum dado parcial é produzido e o erro é
	// exposto como bloqueante, preservando os dados do último ciclo bom
	if runErr != nil {
		next.State = domain.CycleFailed
		next.Error = runErr.Error()
		d.snapshot = next
		return
	}

	for source, fetchResult := range result.ResultsBySource {
		if fetchResult.Fulfilled() {
			next.Data[source] = fetchResult.Series
			continue
		}

		// Fonte com falha: o dado anterior dela permanece visível;
		// apenas o erro parcial reporta o problema
		next.PartialErrors[source] = fetchResult.ErrorMessage
	}

	switch {
	case !result.AnyFulfilled:
		next.State = domain.CycleFailed
		next.Error = "todas as fontes de dados falharam"
	case len(next.PartialErrors) > 0:
		next.State = domain.CyclePartial
	default:
		next.State = domain.CycleSucceeded
	}

	d.snapshot = next

	logrus.WithFields(logrus.Fields{
		"cycle_id":       cycleID,
		"state":          next.State,
		"partial_errors": len(next.PartialErrors),
	}).Debug("Ciclo de fetch do painel liquidado")
}
