package fetching

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/metrics"
)

// DefaultCacheCapacity é o limite de entradas aplicado quando nenhum é
// configurado
const DefaultCacheCapacity = 5

// CacheEntry é uma entrada imutável do cache: depois de inserida é apenas
// substituída, nunca alterada campo a campo
type CacheEntry struct {
	Key       string
	Series    domain.RawSeries
	CreatedAt time.Time
}

// inflightCall representa uma busca em voo compartilhada entre chamadores
// concorrentes da mesma chave
type inflightCall struct {
	done   chan struct{}
	series domain.RawSeries
	err    error
}

// ResponseCache é um armazenamento limitado de séries por chave canônica
// de consulta, com deduplicação single-flight: N chamadores simultâneos da
// mesma chave causam exatamente uma chamada ao produtor. A inserção além
// da capacidade remove a entrada mais antiga (FIFO por inserção). Falhas
// nunca são armazenadas, garantindo que um refetch posterior re-execute o
// produtor.
type ResponseCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*CacheEntry
	order    []string
	inflight map[string]*inflightCall
}

// NewResponseCache cria um cache com a capacidade informada; valores não
// positivos usam DefaultCacheCapacity
func NewResponseCache(capacity int) *ResponseCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}

	return &ResponseCache{
		capacity: capacity,
		entries:  make(map[string]*CacheEntry),
		order:    make([]string, 0, capacity),
		inflight: make(map[string]*inflightCall),
	}
}

// Get devolve a entrada da chave, se presente
func (c *ResponseCache) Get(key string) (domain.RawSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	return entry.Series, true
}

// GetOrFetch devolve a entrada armazenada, compartilha uma busca já em voo
// para a mesma chave, ou executa o produtor. A verificação de entrada em
// voo e a inserção do marcador acontecem sob a mesma aquisição do mutex,
// para que duas buscas da mesma chave nunca partam juntas.
func (c *ResponseCache) GetOrFetch(ctx context.Context, key string, producer func() (domain.RawSeries, error)) (domain.RawSeries, error) {
	c.mu.Lock()

	if entry, exists := c.entries[key]; exists {
		c.mu.Unlock()
		metrics.Default.CacheHits.Inc()
		return entry.Series, nil
	}

	if call, exists := c.inflight[key]; exists {
		c.mu.Unlock()
		metrics.Default.SingleFlightJoins.Inc()

		select {
		case <-call.done:
			return call.series, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	call := &inflightCall{done: make(chan struct{})}
	c.inflight[key] = call
	c.mu.Unlock()

	metrics.Default.CacheMisses.Inc()

	series, err := producer()

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		c.store(key, series)
	}
	c.mu.Unlock()

	call.series, call.err = series, err
	close(call.done)

	return series, err
}

// Invalidate remove as chaves informadas do cache. Buscas em voo não são
// interrompidas; o resultado delas ainda será armazenado ao liquidar.
func (c *ResponseCache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if _, exists := c.entries[key]; !exists {
			continue
		}

		delete(c.entries, key)
		c.removeFromOrder(key)
	}
}

// Len devolve o número de entradas armazenadas
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// store substitui ou insere a entrada e remove as mais antigas quando a
// capacidade é excedida. Chamado com o mutex já adquirido.
func (c *ResponseCache) store(key string, series domain.RawSeries) {
	if _, exists := c.entries[key]; exists {
		c.removeFromOrder(key)
	}

	c.entries[key] = &CacheEntry{
		Key:       key,
		Series:    series,
		CreatedAt: time.Now(),
	}
	c.order = append(c.order, key)

	for len(c.entries) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		metrics.Default.CacheEvictions.Inc()
	}
}

func (c *ResponseCache) removeFromOrder(key string) {
	for i, ordered := range c.order {
		if ordered == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
