package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Sources      Sources      `mapstructure:",squash"`
	Cache        Cache        `mapstructure:",squash"`
	Orchestrator Orchestrator `mapstructure:",squash"`
	Warmup       Warmup       `mapstructure:",squash"`
	LeadThrottle LeadThrottle `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Sources configura o acesso aos endpoints de dados de marketing
type Sources struct {
	BaseURL        string `mapstructure:"sources_base_url"`
	AccessToken    string `mapstructure:"sources_access_token"`
	TimeoutSeconds int    `mapstructure:"sources_timeout_seconds"`
}

// Cache configura o cache de respostas do painel
type Cache struct {
	Capacity int `mapstructure:"cache_capacity"`
}

// Orchestrator configura o fan-out das fontes
type Orchestrator struct {
	SourceTimeoutSeconds int `mapstructure:"orchestrator_source_timeout_seconds"`
}

// Warmup configura o aquecimento periódico do cache do contexto padrão
type Warmup struct {
	CronSchedule string `mapstructure:"cache_warmup_cron"`
	Enabled      bool   `mapstructure:"cache_warmup_enabled"`
}

// LeadThrottle configura o limitador de submissões de lead
type LeadThrottle struct {
	Capacity      int `mapstructure:"lead_throttle_capacity"`
	WindowSeconds int `mapstructure:"lead_throttle_window_seconds"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("SOURCES_BASE_URL", "http://localhost:8080/api")
	viper.SetDefault("SOURCES_ACCESS_TOKEN", "your_access_token") // ONLY LOCAL
	viper.SetDefault("SOURCES_TIMEOUT_SECONDS", 30)

	viper.SetDefault("CACHE_CAPACITY", 5)
	viper.SetDefault("ORCHESTRATOR_SOURCE_TIMEOUT_SECONDS", 30)

	// Defaults para o aquecimento periódico do cache
	viper.SetDefault("CACHE_WARMUP_CRON", "*/30 * * * *") // A cada 30 minutos
	viper.SetDefault("CACHE_WARMUP_ENABLED", false)

	// Defaults para o limitador de submissões de lead
	viper.SetDefault("LEAD_THROTTLE_CAPACITY", 500)
	viper.SetDefault("LEAD_THROTTLE_WINDOW_SECONDS", 60)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
