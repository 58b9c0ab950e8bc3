package domain

import (
	"fmt"
	"strings"
)

// Lead é uma submissão de contato vinda do site institucional
type Lead struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company,omitempty"`
	Message     string `json:"message,omitempty"`
	UTMSource   string `json:"utm_source,omitempty"`
	UTMMedium   string `json:"utm_medium,omitempty"`
	UTMCampaign string `json:"utm_campaign,omitempty"`
}

// Validate verifica os campos obrigatórios da submissão
func (l Lead) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("é necessário informar o nome")
	}

	email := strings.TrimSpace(l.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("é necessário informar um e-mail válido")
	}

	return nil
}

// ThrottleKey é a chave usada para limitar submissões repetidas da mesma
// origem
func (l Lead) ThrottleKey() string {
	return strings.ToLower(strings.TrimSpace(l.Email))
}
