package leadcapture

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/metrics"
)

// ErrThrottled indica que a origem submeteu novamente dentro da janela
var ErrThrottled = fmt.Errorf("submissão recusada: aguarde antes de enviar novamente")

// Notifier entrega a notificação do lead; a entrega em si (e-mail, CRM) é
// uma caixa-preta fora deste núcleo
type Notifier interface {
	Notify(ctx context.Context, lead domain.Lead) error
}

// LeadService recebe submissões do site institucional, aplicando o
// limitador por origem antes de notificar
type LeadService struct {
	throttle *Throttle
	notifier Notifier
}

// NewService cria o serviço de captura de leads
func NewService(throttle *Throttle, notifier Notifier) *LeadService {
	return &LeadService{
		throttle: throttle,
		notifier: notifier,
	}
}

// Submit valida a submissão, aplica o limitador e notifica
func (s *LeadService) Submit(ctx context.Context, lead domain.Lead) error {
	if err := lead.Validate(); err != nil {
		return err
	}

	if !s.throttle.Allow(lead.ThrottleKey(), time.Now()) {
		metrics.Default.LeadsThrottled.Inc()

		logrus.WithField("throttle_key", lead.ThrottleKey()).Info("Submissão de lead recusada pelo limitador")

		return ErrThrottled
	}

	if err := s.notifier.Notify(ctx, lead); err != nil {
		logrus.WithError(err).Error("Erro ao notificar submissão de lead")
		return err
	}

	return nil
}
