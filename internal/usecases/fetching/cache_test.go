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
)

func TestResponseCache_HitAposPrimeiraBusca(t *testing.T) {
	cache := NewResponseCache(5)

	var calls int32
	producer := func() (domain.RawSeries, error) {
		atomic.AddInt32(&calls, 1)
		return domain.RawSeries{{Date: "2026-01-01", Leads: 3}}, nil
	}

	first, err := cache.GetOrFetch(context.Background(), "k1", producer)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := cache.GetOrFetch(context.Background(), "k1", producer)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A segunda chamada é servida pelo cache
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestResponseCache_SingleFlight(t *testing.T) {
	cache := NewResponseCache(5)

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})

	producer := func() (domain.RawSeries, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return domain.RawSeries{{Date: "2026-01-01", Leads: 7}}, nil
	}

	const concurrent = 8

	var wg sync.WaitGroup
	results := make([]domain.RawSeries, concurrent)
	errs := make([]error, concurrent)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = cache.GetOrFetch(context.Background(), "k1", producer)
	}()

	// Aguarda o produtor partir antes de disparar os concorrentes, para que
	// todos encontrem a busca em voo
	<-started

	for i := 1; i < concurrent; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.GetOrFetch(context.Background(), "k1", producer)
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	// Exatamente uma chamada ao produtor para N chamadores simultâneos
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	for i := 0; i < concurrent; i++ {
		require.NoError(t, errs[i])
		require.Len(t, results[i], 1)
		assert.Equal(t, 7, results[i][0].Leads)
	}
}

func TestResponseCache_FalhaNaoEntraNoCache(t *testing.T) {
	cache := NewResponseCache(5)

	var calls int32
	failing := func() (domain.RawSeries, error) {
		atomic.AddInt32(&calls, 1)
		return nil, fmt.Errorf("fonte indisponível")
	}

	_, err := cache.GetOrFetch(context.Background(), "k1", failing)
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	// A próxima busca re-executa o produtor em vez de servir a falha
	series, err := cache.GetOrFetch(context.Background(), "k1", func() (domain.RawSeries, error) {
		atomic.AddInt32(&calls, 1)
		return domain.RawSeries{{Leads: 1}}, nil
	})
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, cache.Len())
}

func TestResponseCache_EvictaMaisAntigaAoExcederCapacidade(t *testing.T) {
	cache := NewResponseCache(2)

	for i, key := range []string{"k1", "k2", "k3"} {
		leads := i + 1
		_, err := cache.GetOrFetch(context.Background(), key, func() (domain.RawSeries, error) {
			return domain.RawSeries{{Leads: leads}}, nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, cache.Len())

	// FIFO por inserção: a primeira chave inserida é a removida
	_, exists := cache.Get("k1")
	assert.False(t, exists)

	_, exists = cache.Get("k2")
	assert.True(t, exists)

	_, exists = cache.Get("k3")
	assert.True(t, exists)
}

func TestResponseCache_Invalidate(t *testing.T) {
	cache := NewResponseCache(5)

	_, err := cache.GetOrFetch(context.Background(), "k1", func() (domain.RawSeries, error) {
		return domain.RawSeries{{Leads: 1}}, nil
	})
	require.NoError(t, err)

	cache.Invalidate("k1", "inexistente")

	assert.Equal(t, 0, cache.Len())
	_, exists := cache.Get("k1")
	assert.False(t, exists)
}

func TestResponseCache_ChamadorDesisteSemDerrubarABusca(t *testing.T) {
	cache := NewResponseCache(5)

	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_, _ = cache.GetOrFetch(context.Background(), "k1", func() (domain.RawSeries, error) {
			close(started)
			<-release
			return domain.RawSeries{{Leads: 9}}, nil
		})
	}()

	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// O chamador cancelado sai com o erro do contexto
	_, err := cache.GetOrFetch(ctx, "k1", func() (domain.RawSeries, error) {
		t.Fatal("o produtor não deve ser chamado com busca em voo")
		return nil, nil
	})
	require.ErrorIs(t, err, context.Canceled)

	// A busca em voo liquida normalmente e armazena o resultado
	close(release)

	assert.Eventually(t, func() bool {
		_, exists := cache.Get("k1")
		return exists
	}, time.Second, 5*time.Millisecond)
}
