package fetching

//go:generate mockgen -source=interfaces.go -destination=mocks/fetcher_mock.go -package=mocks

import (
	"context"

	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

// SourceFetcher é uma fonte de dados independente do painel: uma função
// assíncrona pura de QueryContext para série bruta. Cada fonte pode falhar
// isoladamente sem comprometer as demais.
type SourceFetcher interface {
	// Name identifica a fonte nos resultados e nas chaves de cache
	Name() string

	// Fetch busca a série bruta da fonte para o contexto informado.
	// O context.Context carrega o cancelamento e o prazo do ciclo.
	Fetch(ctx context.Context, q domain.QueryContext) (domain.RawSeries, error)
}
