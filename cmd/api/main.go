package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/integrator/insights"
	"github.com/vfg2006/marketing-analytics-api/infrastructure/notifier"
	"github.com/vfg2006/marketing-analytics-api/internal/api"
	"github.com/vfg2006/marketing-analytics-api/internal/config"
	"github.com/vfg2006/marketing-analytics-api/internal/domain"
	"github.com/vfg2006/marketing-analytics-api/internal/scheduler"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/fetching"
	"github.com/vfg2006/marketing-analytics-api/internal/usecases/leadcapture"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cliente dos endpoints de dados de marketing e as nove fontes dos
	// painéis
	insightsClient := insights.NewClient(cfg)
	sources := insights.DefaultSources(insightsClient)

	cache := fetching.NewResponseCache(cfg.Cache.Capacity)

	orchestrator := fetching.NewOrchestrator(
		cache,
		sources,
		time.Duration(cfg.Orchestrator.SourceTimeoutSeconds)*time.Second,
	)

	// Painel com o contexto de consulta padrão (janela retroativa de 24
	// dias, sem filtro de plataformas)
	dashboard := fetching.NewDashboard(orchestrator, cache, domain.NewQueryContext(domain.QueryParams{}))
	dashboard.Start(ctx)

	// Agendador de aquecimento do cache do contexto ativo
	warmupService := scheduler.NewCacheWarmupService(dashboard, cfg)
	if err := warmupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de aquecimento de cache")
	} else {
		logrus.Info("Agendador de aquecimento de cache iniciado com sucesso")
	}

	// Serviço de captura de leads do site institucional
	throttle := leadcapture.NewThrottle(
		cfg.LeadThrottle.Capacity,
		time.Duration(cfg.LeadThrottle.WindowSeconds)*time.Second,
	)
	leadService := leadcapture.NewService(throttle, notifier.NewLogNotifier())

	server, err := api.New(cfg, dashboard, leadService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
