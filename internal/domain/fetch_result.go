package domain

// FetchStatus é o desfecho individual de uma fonte em um ciclo de fetch
type FetchStatus string

const (
	FetchFulfilled FetchStatus = "fulfilled"
	FetchRejected  FetchStatus = "rejected"
)

// FetchResult captura o desfecho de uma fonte: sucesso com a série bruta
// ou falha com a mensagem de erro. É produzido uma única vez por ciclo e
// nunca atualizado parcialmente.
type FetchResult struct {
	Source       string      `json:"source"`
	Status       FetchStatus `json:"status"`
	Series       RawSeries   `json:"series,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

// Fulfilled indica se a fonte respondeu com sucesso
func (r FetchResult) Fulfilled() bool {
	return r.Status == FetchFulfilled
}

// OrchestratorResult é o resultado combinado de um ciclo: o desfecho de
// cada fonte e se ao menos uma respondeu com sucesso. Falhas individuais
// nunca escalam para erro do ciclo; apenas a invalidez do próprio
// QueryContext interrompe a orquestração.
type OrchestratorResult struct {
	Context         QueryContext
	ResultsBySource map[string]FetchResult
	AnyFulfilled    bool
}

// PartialErrors devolve as mensagens de erro das fontes que falharam,
// indexadas pelo nome da fonte
func (r OrchestratorResult) PartialErrors() map[string]string {
	partial := make(map[string]string)

	for source, result := range r.ResultsBySource {
		if !result.Fulfilled() {
			partial[source] = result.ErrorMessage
		}
	}

	return partial
}
