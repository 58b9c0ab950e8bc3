package domain

import "encoding/json"

// Record é um registro datado de uma série bruta retornada por uma fonte.
// Os campos conhecidos alimentam a agregação; qualquer campo extra da
// resposta é preservado em Extra como passagem opaca.
type Record struct {
	Date        string  `json:"date"`
	Platform    string  `json:"platform"`
	Campaign    string  `json:"campaign"`
	UTMSource   string  `json:"utm_source"`
	UTMMedium   string  `json:"utm_medium"`
	UTMCampaign string  `json:"utm_campaign"`
	CRMOrigin   string  `json:"crm_origin"`
	Leads       int     `json:"leads"`
	Contracts   int     `json:"contracts"`
	Revenue     float64 `json:"revenue"`
	Spend       float64 `json:"spend"`

	Extra map[string]json.RawMessage `json:"-"`
}

// RawSeries é a coleção de registros de uma fonte. Nunca é mutada após a
// montagem; a agregação sempre produz novas estruturas.
type RawSeries []Record

// knownRecordFields são as chaves consumidas pela agregação; tudo que não
// estiver aqui vai para Extra
var knownRecordFields = map[string]bool{
	"date":         true,
	"platform":     true,
	"campaign":     true,
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"crm_origin":   true,
	"leads":        true,
	"contracts":    true,
	"revenue":      true,
	"spend":        true,
}

// UnmarshalJSON decodifica os campos conhecidos e guarda o restante em
// Extra sem interpretá-lo
func (r *Record) UnmarshalJSON(data []byte) error {
	type recordAlias Record

	alias := recordAlias{}
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for field := range raw {
		if knownRecordFields[field] {
			delete(raw, field)
		}
	}

	*r = Record(alias)
	if len(raw) > 0 {
		r.Extra = raw
	}

	return nil
}

// MarshalJSON devolve os campos conhecidos junto com os campos extras
// preservados
func (r Record) MarshalJSON() ([]byte, error) {
	type recordAlias Record

	known, err := json.Marshal(recordAlias(r))
	if err != nil {
		return nil, err
	}

	if len(r.Extra) == 0 {
		return known, nil
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}

	for field, value := range r.Extra {
		if _, exists := merged[field]; !exists {
			merged[field] = value
		}
	}

	return json.Marshal(merged)
}
