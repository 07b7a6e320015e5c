package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Backends de dados e de sessão suportados.
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config agrupa a configuração necessária para rodar a aplicação.
// Nota: SUPABASE_URL/SUPABASE_ANON_KEY não são validadas aqui de propósito;
// a ausência aparece depois como erro opaco do DataClient, igual ao site original.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	DataBackend     string `envconfig:"DATA_BACKEND" default:"supabase"`
	SupabaseURL     string `envconfig:"SUPABASE_URL"`
	SupabaseAnonKey string `envconfig:"SUPABASE_ANON_KEY"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`

	SessionStore string        `envconfig:"SESSION_STORE" default:"memory"`
	RedisURL     string        `envconfig:"REDIS_URL"`
	SessionTTL   time.Duration `envconfig:"SESSION_TTL" default:"30m"`
}

// Load lê variáveis de ambiente e valida o mínimo indispensável.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	// Normalizamos caso alguém mande ":8080".
	cfg.Port = strings.TrimPrefix(strings.TrimSpace(cfg.Port), ":")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	switch cfg.DataBackend {
	case BackendSupabase, BackendPostgres:
	default:
		return Config{}, fmt.Errorf("invalid DATA_BACKEND: %q", cfg.DataBackend)
	}

	// O backend postgres fala direto com o banco; aí sim a URL é obrigatória.
	if cfg.DataBackend == BackendPostgres && strings.TrimSpace(cfg.DatabaseURL) == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	switch cfg.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return Config{}, fmt.Errorf("missing required env var: REDIS_URL")
		}
	default:
		return Config{}, fmt.Errorf("invalid SESSION_STORE: %q", cfg.SessionStore)
	}

	return cfg, nil
}
