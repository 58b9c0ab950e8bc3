package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/fetching"
)

// CacheWarmupConfig representa a configuração do agendador de aquecimento
type CacheWarmupConfig struct {
	CronSchedule string
	Enabled      bool
}

// CacheWarmupService reaquece periodicamente o cache do contexto de
// consulta ativo do painel, para que o primeiro acesso após a expiração
// natural dos dados não pague a latência do fan-out completo
type CacheWarmupService struct {
	scheduler           *gocron.Scheduler
	config              CacheWarmupConfig
	dashboard           *fetching.Dashboard
	warmupRunning       bool
	warmupMutex         sync.Mutex
	lastWarmupStartedAt time.Time
}

// NewCacheWarmupService cria uma nova instância do serviço de aquecimento
func NewCacheWarmupService(dashboard *fetching.Dashboard, appConfig *config.Config) *CacheWarmupService {
	warmupConfig := CacheWarmupConfig{
		CronSchedule: appConfig.Warmup.CronSchedule,
		Enabled:      appConfig.Warmup.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": warmupConfig.CronSchedule,
		"enabled":       warmupConfig.Enabled,
	}).Info("Configuração do agendador de aquecimento de cache carregada")

	return &CacheWarmupService{
		scheduler: scheduler,
		config:    warmupConfig,
		dashboard: dashboard,
	}
}

// Start inicia o agendador
func (s *CacheWarmupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Aquecimento de cache desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de aquecimento de cache")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.warmup()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar aquecimento de cache: %w", err)
	}

	s.scheduler.StartAsync()

	// Parar o agendador quando o contexto da aplicação for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de aquecimento de cache")
		s.scheduler.Stop()
	}()

	return nil
}

// warmup invalida e rebusca as entradas do contexto ativo
func (s *CacheWarmupService) warmup() {
	s.warmupMutex.Lock()
	if s.warmupRunning {
		s.warmupMutex.Unlock()
		logrus.Info("Aquecimento de cache já em andamento, ignorando")
		return
	}
	s.warmupRunning = true
	s.lastWarmupStartedAt = time.Now()
	s.warmupMutex.Unlock()

	defer func() {
		s.warmupMutex.Lock()
		s.warmupRunning = false
		s.warmupMutex.Unlock()
	}()

	logrus.WithField("cache_key", s.dashboard.Filters().CacheKey()).Info("Reaquecendo cache do painel")

	s.dashboard.Refetch()
}
