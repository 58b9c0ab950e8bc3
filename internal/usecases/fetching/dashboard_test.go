package fetching

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/fetching/mocks"
	"go.uber.org/mock/gomock"
)

func settled(d *Dashboard) func() bool {
	return func() bool {
		snapshot := d.Snapshot()
		return !snapshot.Loading && snapshot.State != domain.CycleFetching
	}
}

func TestDashboard_FalhaParcialMantemDadosDasDemaisFontes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	googleSeries := domain.RawSeries{
		{Date: "2026-01-01", Platform: "google", Leads: 5},
		{Date: "2026-01-02", Platform: "google", Leads: 3},
		{Date: "2026-01-03", Platform: "google", Leads: 8},
	}

	google := mocks.NewMockSourceFetcher(ctrl)
	google.EXPECT().Name().Return("google").AnyTimes()
	google.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(googleSeries, nil).AnyTimes()

	facebook := mocks.NewMockSourceFetcher(ctrl)
	facebook.EXPECT().Name().Return("facebook").AnyTimes()
	facebook.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("tempo de resposta excedido")).AnyTimes()

	cache := NewResponseCache(10)
	orchestrator := NewOrchestrator(cache, []SourceFetcher{google, facebook}, time.Second)
	dashboard := NewDashboard(orchestrator, cache, testQueryContext())

	dashboard.Start(context.Background())

	require.Eventually(t, settled(dashboard), 2*time.Second, 10*time.Millisecond)

	snapshot := dashboard.Snapshot()

	// A falha de uma fonte vira erro parcial; as demais entregam os dados e
	// nenhum erro bloqueante é exposto
	assert.Equal(t, domain.CyclePartial, snapshot.State)
	assert.Empty(t, snapshot.Error)
	assert.Len(t, snapshot.Data["google"], 3)
	assert.Equal(t, "tempo de resposta excedido", snapshot.PartialErrors["facebook"])
	assert.NotContains(t, snapshot.Data, "facebook")
}

func TestDashboard_TodasFalhandoPreservaUltimoEstadoBom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var failing atomic.Bool

	google := mocks.NewMockSourceFetcher(ctrl)
	google.EXPECT().Name().Return("google").AnyTimes()
	google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domain.QueryContext) (domain.RawSeries, error) {
			if failing.Load() {
				return nil, fmt.Errorf("erro de rede")
			}
			return domain.RawSeries{{Date: "2026-01-01", Platform: "google", Leads: 5}}, nil
		},
	).AnyTimes()

	cache := NewResponseCache(10)
	orchestrator := NewOrchestrator(cache, []SourceFetcher{google}, time.Second)
	dashboard := NewDashboard(orchestrator, cache, testQueryContext())

	dashboard.Start(context.Background())

	require.Eventually(t, func() bool {
		return dashboard.Snapshot().State == domain.CycleSucceeded
	}, 2*time.Second, 10*time.Millisecond)

	// A partir daqui todas as buscas falham; o refetch invalida o cache e
	// re-executa a fonte
	failing.Store(true)
	dashboard.Refetch()

	require.Eventually(t, func() bool {
		return dashboard.Snapshot().State == domain.CycleFailed
	}, 2*time.Second, 10*time.Millisecond)

	snapshot := dashboard.Snapshot()

	// O estado reporta a falha, mas os dados do último ciclo bom permanecem
	assert.Equal(t, "todas as fontes de dados falharam", snapshot.Error)
	assert.Len(t, snapshot.Data["google"], 1)
	assert.Equal(t, 5, snapshot.Data["google"][0].Leads)
}

func TestDashboard_ResultadoDeCicloSupersededEhDescartado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	initial := testQueryContext()
	slowRelease := make(chan struct{})
	slowStarted := make(chan struct{})

	staleSeries := domain.RawSeries{{Date: "2026-01-01", Platform: "google", Leads: 999}}
	freshSeries := domain.RawSeries{{Date: "2026-01-01", Platform: "google", Leads: 5}}

	google := mocks.NewMockSourceFetcher(ctrl)
	google.EXPECT().Name().Return("google").AnyTimes()
	google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q domain.QueryContext) (domain.RawSeries, error) {
			if q.Equal(initial) {
				// Primeiro ciclo: só liquida depois que o segundo já aplicou
				close(slowStarted)
				<-slowRelease
				return staleSeries, nil
			}
			return freshSeries, nil
		},
	).AnyTimes()

	cache := NewResponseCache(10)
	orchestrator := NewOrchestrator(cache, []SourceFetcher{google}, 5*time.Second)
	dashboard := NewDashboard(orchestrator, cache, initial)

	dashboard.Start(context.Background())
	<-slowStarted

	// Mudança de filtro supersede o ciclo em voo
	dashboard.SetFilters(domain.QueryParams{Platforms: []string{"google"}})

	require.Eventually(t, func() bool {
		return dashboard.Snapshot().State == domain.CycleSucceeded
	}, 2*time.Second, 10*time.Millisecond)

	freshCycleID := dashboard.Snapshot().CycleID

	// O ciclo antigo liquida tarde demais e deve ser descartado em silêncio
	close(slowRelease)
	time.Sleep(50 * time.Millisecond)

	snapshot := dashboard.Snapshot()
	assert.Equal(t, freshCycleID, snapshot.CycleID)
	assert.Equal(t, domain.CycleSucceeded, snapshot.State)
	assert.Empty(t, snapshot.Error)
	require.Len(t, snapshot.Data["google"], 1)
	assert.Equal(t, 5, snapshot.Data["google"][0].Leads)
}

func TestDashboard_RefetchComBuscaEmVooNaoViraFalha(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started := make(chan struct{})
	var once sync.Once
	var calls int32

	// A fonte respeita o cancelamento do contexto: se o refetch cancelasse
	// o ciclo anterior, a busca em voo compartilhada liquidaria com
	// "context canceled" em vez dos dados
	google := mocks.NewMockSourceFetcher(ctrl)
	google.EXPECT().Name().Return("google").AnyTimes()
	google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ domain.QueryContext) (domain.RawSeries, error) {
			atomic.AddInt32(&calls, 1)
			once.Do(func() { close(started) })

			select {
			case <-time.After(100 * time.Millisecond):
				return domain.RawSeries{{Date: "2026-01-01", Platform: "google", Leads: 5}}, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	).AnyTimes()

	cache := NewResponseCache(10)
	orchestrator := NewOrchestrator(cache, []SourceFetcher{google}, time.Second)
	dashboard := NewDashboard(orchestrator, cache, testQueryContext())

	dashboard.Start(context.Background())
	<-started

	// Refetch no meio do primeiro ciclo: mesmas chaves, busca ainda em voo
	dashboard.Refetch()

	require.Eventually(t, func() bool {
		return dashboard.Snapshot().State == domain.CycleSucceeded
	}, 2*time.Second, 10*time.Millisecond)

	snapshot := dashboard.Snapshot()

	assert.Empty(t, snapshot.Error)
	assert.Empty(t, snapshot.PartialErrors)
	require.Len(t, snapshot.Data["google"], 1)
	assert.Equal(t, 5, snapshot.Data["google"][0].Leads)

	// A fonte nunca liquida com cancelamento herdado; o novo ciclo
	// compartilha a busca em voo ou re-executa, nunca falha
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
}

func TestDashboard_FiltroLogicamenteIgualNaoReiniciaCiclo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var fetches int32

	google := mocks.NewMockSourceFetcher(ctrl)
	google.EXPECT().Name().Return("google").AnyTimes()
	google.EXPECT().Fetch(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domain.QueryContext) (domain.RawSeries, error) {
			atomic.AddInt32(&fetches, 1)
			return domain.RawSeries{{Leads: 1}}, nil
		},
	).AnyTimes()

	cache := NewResponseCache(10)
	orchestrator := NewOrchestrator(cache, []SourceFetcher{google}, time.Second)
	dashboard := NewDashboard(orchestrator, cache, testQueryContext())

	dashboard.Start(context.Background())

	require.Eventually(t, func() bool {
		return dashboard.Snapshot().State == domain.CycleSucceeded
	}, 2*time.Second, 10*time.Millisecond)

	firstCycleID := dashboard.Snapshot().CycleID

	// Parâmetros vazios serializam para a mesma chave canônica
	dashboard.SetFilters(domain.QueryParams{})
	time.Sleep(50 * time.Millisecond)

	snapshot := dashboard.Snapshot()
	assert.Equal(t, firstCycleID, snapshot.CycleID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}

func TestDashboard_SnapshotEhCopiaIndependente(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	google := mocks.NewMockSourceFetcher(ctrl)
	google.EXPECT().Name().Return("google").AnyTimes()
	google.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(domain.RawSeries{{Leads: 1}}, nil).AnyTimes()

	cache := NewResponseCache(10)
	orchestrator := NewOrchestrator(cache, []SourceFetcher{google}, time.Second)
	dashboard := NewDashboard(orchestrator, cache, testQueryContext())

	dashboard.Start(context.Background())

	require.Eventually(t, settled(dashboard), 2*time.Second, 10*time.Millisecond)

	snapshot := dashboard.Snapshot()
	snapshot.Data["google"] = nil
	snapshot.PartialErrors["google"] = "mutação externa"

	fresh := dashboard.Snapshot()
	assert.Len(t, fresh.Data["google"], 1)
	assert.NotContains(t, fresh.PartialErrors, "google")
}
