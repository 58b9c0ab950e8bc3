package notifier

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
)

// LogNotifier registra a submissão no log estruturado. A entrega real
// (e-mail, CRM) fica atrás da interface Notifier e pode ser trocada sem
// tocar no serviço de captura.
type LogNotifier struct{}

// NewLogNotifier cria o notificador baseado em log
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, lead domain.Lead) error {
	logrus.WithFields(logrus.Fields{
		"name":         lead.Name,
		"email":        lead.Email,
		"company":      lead.Company,
		"utm_source":   lead.UTMSource,
		"utm_medium":   lead.UTMMedium,
		"utm_campaign": lead.UTMCampaign,
	}).Info("Nova submissão de lead recebida")

	return nil
}
