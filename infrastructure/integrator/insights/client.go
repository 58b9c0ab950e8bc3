package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

// Client busca séries brutas nos endpoints de dados de marketing
type Client interface {
	FetchSeries(ctx context.Context, endpoint string, q domain.QueryContext) (domain.RawSeries, error)
}

type InsightsClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient cria uma nova instância do cliente de insights
func NewClient(cfg *config.Config) Client {
	timeout := time.Duration(cfg.Sources.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &InsightsClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		config: cfg,
	}
}

// FetchSeries executa a consulta de um endpoint com o QueryContext
// serializado como parâmetros de query. A resposta pode ser um array de
// registros ou um objeto único (totais de KPI); ambos viram RawSeries.
func (c *InsightsClient) FetchSeries(ctx context.Context, endpoint string, q domain.QueryContext) (domain.RawSeries, error) {
	// Construir a URL da requisição
	target, err := url.Parse(c.config.Sources.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao analisar a URL base das fontes")
	}
	target.Path = path.Join(target.Path, endpoint)

	// Adicionar os parâmetros de consulta
	query := target.Query()
	query.Set("date_from", q.DateFrom.Format(time.DateOnly))
	query.Set("date_to", q.DateTo.Format(time.DateOnly))

	if q.HasPlatformFilter() {
		query.Set("platforms", strings.Join(q.Platforms, ","))
		if len(q.Platforms) == 1 {
			query.Set("platform", q.Platforms[0])
		}
	}

	if q.Search != "" {
		query.Set("search", q.Search)
	}

	query.Set("page", strconv.Itoa(q.Page))
	query.Set("page_size", strconv.Itoa(q.PageSize))
	target.RawQuery = query.Encode()

	// Criar a requisição HTTP
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição")
	}

	req.Header.Set("Authorization", "Bearer "+c.config.Sources.AccessToken)
	req.Header.Set("Accept", "application/json")

	// Executar a requisição
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a requisição")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("requisição a %s falhou com status: %s", endpoint, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler o corpo da resposta")
	}

	return decodeSeries(body)
}

// decodeSeries aceita tanto um array de registros quanto um objeto único
func decodeSeries(body []byte) (domain.RawSeries, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return domain.RawSeries{}, nil
	}

	if trimmed[0] == '[' {
		var series domain.RawSeries
		if err := json.Unmarshal(trimmed, &series); err != nil {
			return nil, errors.Wrap(err, "erro ao decodificar a resposta")
		}
		return series, nil
	}

	var record domain.Record
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar a resposta")
	}

	return domain.RawSeries{record}, nil
}
