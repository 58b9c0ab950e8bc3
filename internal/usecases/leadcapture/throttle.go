package leadcapture

import (
	"sync"
	"time"
)

// DefaultThrottleCapacity limita quantas chaves distintas o limitador
// rastreia ao mesmo tempo
const DefaultThrottleCapacity = 500

// Throttle limita submissões repetidas por chave dentro de uma janela de
// tempo. É uma estrutura limitada e com evicção explícita: ao exceder a
// capacidade, a chave registrada há mais tempo é removida em vez de deixar
// o mapa crescer sem limite.
type Throttle struct {
	mu       sync.Mutex
	capacity int
	window   time.Duration
	lastSeen map[string]time.Time
	order    []string
}

// NewThrottle cria um limitador com a capacidade e a janela informadas
func NewThrottle(capacity int, window time.Duration) *Throttle {
	if capacity <= 0 {
		capacity = DefaultThrottleCapacity
	}

	return &Throttle{
		capacity: capacity,
		window:   window,
		lastSeen: make(map[string]time.Time),
		order:    make([]string, 0, capacity),
	}
}

// Allow decide se a chave pode submeter agora. A primeira submissão de uma
// chave, ou uma submissão após a janela, é aceita e registrada; dentro da
// janela é recusada.
func (t *Throttle) Allow(key string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seen, exists := t.lastSeen[key]; exists {
		if now.Sub(seen) < t.window {
			return false
		}

		t.removeFromOrder(key)
	}

	t.lastSeen[key] = now
	t.order = append(t.order, key)

	for len(t.lastSeen) > t.capacity {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.lastSeen, oldest)
	}

	return true
}

// Len devolve o número de chaves rastreadas
func (t *Throttle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.lastSeen)
}

func (t *Throttle) removeFromOrder(key string) {
	for i, ordered := range t.order {
		if ordered == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}
