package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	TraceNone   = "none"
	TraceStdout = "stdout"
	TraceOTLP   = "otlp"
)

// Config 服务配置，全部来自环境变量
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	ArkAPIKey  string        `env:"ARK_API_KEY"`
	ArkBaseURL string        `env:"ARK_BASE_URL"`
	ArkMock    bool          `env:"ARK_MOCK" envDefault:"false"`
	ArkTimeout time.Duration `env:"ARK_TIMEOUT" envDefault:"60s"`
	ArkRegion  string        `env:"ARK_REGION" envDefault:"cn-beijing"`

	LLMProvider           string  `env:"LLM_PROVIDER" envDefault:"ark"`
	ChatModel             string  `env:"CHAT_MODEL" envDefault:"doubao-seed-1-6-250615"`
	ImageModel            string  `env:"IMAGE_MODEL" envDefault:"doubao-seedream-4.0"`
	GenerationTemperature float32 `env:"GENERATION_TEMPERATURE" envDefault:"0.7"`
	GenerationMaxRetries  int     `env:"GENERATION_MAX_RETRIES" envDefault:"2"`

	StoreDriver string        `env:"STORE_DRIVER" envDefault:"memory"`
	StoreDSN    string        `env:"STORE_DSN"`
	RedisAddr   string        `env:"REDIS_ADDR"`
	RedisTTL    time.Duration `env:"REDIS_TTL" envDefault:"24h"`

	PosterDir           string        `env:"POSTER_DIR" envDefault:"./posters"`
	PosterRetention     time.Duration `env:"POSTER_RETENTION" envDefault:"5m"`
	PosterSweepInterval time.Duration `env:"POSTER_SWEEP_INTERVAL" envDefault:"60s"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`

	TraceExporter string `env:"TRACE_EXPORTER" envDefault:"none"`
	OTLPEndpoint  string `env:"OTLP_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment and checks the enumerated settings.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("config: unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver == StorePostgres && c.StoreDSN == "" {
		return fmt.Errorf("config: STORE_DSN required for postgres")
	}
	if c.StoreDriver == StoreSQLite && c.StoreDSN == "" {
		c.StoreDSN = "lovereel.db"
	}
	switch c.TraceExporter {
	case TraceNone, TraceStdout, TraceOTLP:
	default:
		return fmt.Errorf("config: unsupported TRACE_EXPORTER %q", c.TraceExporter)
	}
	if c.GenerationMaxRetries < 0 {
		return fmt.Errorf("config: GENERATION_MAX_RETRIES must not be negative")
	}
	if !c.ArkMock && c.ArkAPIKey == "" {
		return fmt.Errorf("config: ARK_API_KEY required unless ARK_MOCK=true")
	}
	return nil
}

// LoadDotEnv 从 .env 文件加载环境变量（本地运行时使用）。文件不存在时跳过，已有的环境变量不会被覆盖。
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
