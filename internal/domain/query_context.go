package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWindowDays é a janela retroativa aplicada quando nenhum período é informado
	DefaultWindowDays = 24

	// DefaultPageSize é o tamanho de página aplicado quando nenhum é informado
	DefaultPageSize = 50
)

// QueryParams são as entradas brutas vindas da camada de apresentação.
// Campos vazios recebem valores padrão na construção do QueryContext.
type QueryParams struct {
	DateFrom  *time.Time `json:"date_from,omitempty"`
	DateTo    *time.Time `json:"date_to,omitempty"`
	Platforms []string   `json:"platforms,omitempty"`
	Search    *string    `json:"search,omitempty"`
	Page      *int       `json:"page,omitempty"`
	PageSize  *int       `json:"page_size,omitempty"`
}

// QueryContext descreve "o que buscar" em um ciclo de fetch: período,
// filtro de plataformas, busca livre e paginação. É imutável depois de
// construído; qualquer mudança de filtro produz um novo QueryContext.
type QueryContext struct {
	DateFrom  time.Time
	DateTo    time.Time
	Platforms []string
	Search    string
	Page      int
	PageSize  int
}

// NewQueryContext é a única fábrica de QueryContext. Preenche os valores
// padrão (janela retroativa de 24 dias, primeira página) e normaliza os
// filtros: plataformas "all" ou vazias significam "sem filtro", a lista é
// ordenada e deduplicada para que entradas logicamente iguais serializem
// de forma idêntica.
func NewQueryContext(params QueryParams) QueryContext {
	q := QueryContext{
		Page:     1,
		PageSize: DefaultPageSize,
	}

	now := time.Now().UTC()
	q.DateTo = truncateToDay(now)
	q.DateFrom = q.DateTo.AddDate(0, 0, -(DefaultWindowDays - 1))

	if params.DateFrom != nil && !params.DateFrom.IsZero() {
		q.DateFrom = truncateToDay(*params.DateFrom)
	}

	if params.DateTo != nil && !params.DateTo.IsZero() {
		q.DateTo = truncateToDay(*params.DateTo)
	}

	q.Platforms = normalizePlatforms(params.Platforms)

	if params.Search != nil {
		q.Search = strings.TrimSpace(*params.Search)
	}

	if params.Page != nil && *params.Page > 0 {
		q.Page = *params.Page
	}

	if params.PageSize != nil && *params.PageSize > 0 {
		q.PageSize = *params.PageSize
	}

	return q
}

// Merge constrói um novo QueryContext aplicando parâmetros parciais sobre
// o contexto atual. Campos não informados preservam o valor vigente.
func (q QueryContext) Merge(params QueryParams) QueryContext {
	if params.DateFrom == nil {
		from := q.DateFrom
		params.DateFrom = &from
	}

	if params.DateTo == nil {
		to := q.DateTo
		params.DateTo = &to
	}

	if params.Platforms == nil {
		params.Platforms = q.Platforms
	}

	if params.Search == nil {
		search := q.Search
		params.Search = &search
	}

	if params.Page == nil {
		page := q.Page
		params.Page = &page
	}

	if params.PageSize == nil {
		size := q.PageSize
		params.PageSize = &size
	}

	return NewQueryContext(params)
}

// Validate verifica se o contexto pode iniciar um ciclo de fetch
func (q QueryContext) Validate() error {
	if q.DateFrom.IsZero() || q.DateTo.IsZero() {
		return fmt.Errorf("é necessário informar as datas de início e fim")
	}

	if q.DateFrom.After(q.DateTo) {
		return fmt.Errorf("a data de início não pode ser posterior à data de fim")
	}

	if q.Page < 1 || q.PageSize < 1 {
		return fmt.Errorf("parâmetros de paginação inválidos")
	}

	return nil
}

// CacheKey é a serialização canônica do QueryContext: ordem de campos
// fixa, plataformas ordenadas, filtros vazios omitidos por valor padrão.
// Dois contextos logicamente iguais produzem sempre a mesma chave.
func (q QueryContext) CacheKey() string {
	var b strings.Builder

	b.WriteString("date_from=")
	b.WriteString(q.DateFrom.Format(time.DateOnly))
	b.WriteString("&date_to=")
	b.WriteString(q.DateTo.Format(time.DateOnly))
	b.WriteString("&platforms=")
	b.WriteString(strings.Join(q.Platforms, ","))
	b.WriteString("&search=")
	b.WriteString(q.Search)
	b.WriteString("&page=")
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteString("&page_size=")
	b.WriteString(strconv.Itoa(q.PageSize))

	return b.String()
}

// SourceCacheKey deriva a chave de cache de uma fonte específica dentro
// deste contexto
func (q QueryContext) SourceCacheKey(sourceName string) string {
	return q.CacheKey() + "|" + sourceName
}

// Equal compara dois contextos pela serialização canônica
func (q QueryContext) Equal(other QueryContext) bool {
	return q.CacheKey() == other.CacheKey()
}

// HasPlatformFilter indica se há filtro de plataformas ativo
func (q QueryContext) HasPlatformFilter() bool {
	return len(q.Platforms) > 0
}

// normalizePlatforms ordena, deduplica e remove os valores que significam
// "sem filtro" ("all" e string vazia)
func normalizePlatforms(platforms []string) []string {
	seen := make(map[string]bool)
	normalized := make([]string, 0, len(platforms))

	for _, platform := range platforms {
		p := strings.ToLower(strings.TrimSpace(platform))
		if p == "" || p == "all" {
			continue
		}

		if seen[p] {
			continue
		}

		seen[p] = true
		normalized = append(normalized, p)
	}

	sort.Strings(normalized)

	return normalized
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
