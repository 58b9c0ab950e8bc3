package domain

import "time"

// CycleState é o estado do ciclo de fetch ativo no painel
type CycleState string

const (
	CycleIdle      CycleState = "idle"
	CycleFetching  CycleState = "fetching"
	CycleSucceeded CycleState = "succeeded"
	CyclePartial   CycleState = "partially_succeeded"
	CycleFailed    CycleState = "failed"
)

// DashboardSnapshot é a estrutura estável exposta à camada de apresentação:
// os dados por fonte do último ciclo liquidado, o estado de carregamento e
// os erros parciais. Enquanto um ciclo está em voo, Loading fica true e os
// dados do ciclo anterior permanecem visíveis.
type DashboardSnapshot struct {
	Data          map[string]RawSeries `json:"data"`
	Loading       bool                 `json:"loading"`
	Error         string               `json:"error,omitempty"`
	PartialErrors map[string]string    `json:"partial_errors,omitempty"`
	State         CycleState           `json:"state"`
	CycleID       string               `json:"cycle_id,omitempty"`
	Filters       QueryContext         `json:"-"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Clone devolve uma cópia independente do snapshot; os mapas são copiados
// para que o leitor nunca observe uma escrita parcial
func (s DashboardSnapshot) Clone() DashboardSnapshot {
	cloned := s

	cloned.Data = make(map[string]RawSeries, len(s.Data))
	for source, series := range s.Data {
		cloned.Data[source] = series
	}

	cloned.PartialErrors = make(map[string]string, len(s.PartialErrors))
	for source, message := range s.PartialErrors {
		cloned.PartialErrors[source] = message
	}

	return cloned
}
