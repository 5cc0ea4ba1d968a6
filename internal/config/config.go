package config

import (
	"time"
)

// Default configuration values.
const (
	defaultServiceName       = "triage"
	defaultServiceVersion    = "1.0.0"
	defaultServicePort       = 8090
	defaultWorkingLanguage   = "en"
	defaultModelDir          = "artifacts"
	defaultFallbackThreshold = 0.35
	defaultDBHost            = "localhost"
	defaultDBPort            = 5432
	defaultDBUser            = "postgres"
	defaultDBName            = "grievance"
	defaultDBSSLMode         = "disable"
	defaultDBMaxConns        = 25
	defaultDBMaxIdleConns    = 5
	defaultESURL             = "http://localhost:9200"
	defaultESTimeoutSec      = 30
	defaultESIndex           = "complaints_triaged"
	defaultTranslatorURL     = "http://translator:8091"
	defaultTranslatorRPS     = 10
	defaultTranslateTimeout  = 10 * time.Second
	defaultBatchConcurrency  = 10
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
)

// Config holds all configuration for the triage service.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Database      DatabaseConfig      `yaml:"database"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Language      LanguageConfig      `yaml:"language"`
	Model         ModelConfig         `yaml:"model"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name             string `yaml:"name"`
	Version          string `yaml:"version"`
	Port             int    `env:"TRIAGE_PORT"        yaml:"port"`
	Debug            bool   `env:"APP_DEBUG"          yaml:"debug"`
	BatchConcurrency int    `env:"TRIAGE_CONCURRENCY" yaml:"batch_concurrency"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Enabled         bool          `env:"POSTGRES_ENABLED"  yaml:"enabled"`
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// ElasticsearchConfig holds Elasticsearch configuration for the triaged-complaint index.
type ElasticsearchConfig struct {
	Enabled  bool          `env:"ELASTICSEARCH_ENABLED" yaml:"enabled"`
	URL      string        `env:"ELASTICSEARCH_URL"     yaml:"url"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
	Index    string        `yaml:"index"`
}

// LanguageConfig holds language detection and translation settings.
type LanguageConfig struct {
	// WorkingLanguage is the ISO 639-1 code the pipeline classifies in.
	WorkingLanguage string `yaml:"working_language"`
	// TranslatorURL is the base URL of the translation service.
	// Translation is skipped entirely when empty.
	TranslatorURL string        `env:"TRANSLATOR_URL" yaml:"translator_url"`
	TranslatorRPS int           `yaml:"translator_rps"`
	Timeout       time.Duration `yaml:"timeout"`
}

// ModelConfig holds classifier artifact settings.
type ModelConfig struct {
	// Dir is the directory holding the pre-trained artifact bundle
	// (tfidf_vectorizer.json, category_model.json, label_encoder.json).
	Dir string `env:"MODEL_DIR" yaml:"dir"`
	// FallbackThreshold is the confidence below which keyword fallback
	// classification is consulted.
	FallbackThreshold float64 `yaml:"fallback_threshold"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// LoadConfig loads the service configuration from the specified path.
func LoadConfig(path string) (*Config, error) {
	return LoadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setElasticsearchDefaults(&cfg.Elasticsearch)
	setLanguageDefaults(&cfg.Language)
	setModelDefaults(&cfg.Model)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.BatchConcurrency == 0 {
		s.BatchConcurrency = defaultBatchConcurrency
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if e.URL == "" {
		e.URL = defaultESURL
	}
	if e.Timeout == 0 {
		e.Timeout = defaultESTimeoutSec * time.Second
	}
	if e.Index == "" {
		e.Index = defaultESIndex
	}
}

func setLanguageDefaults(l *LanguageConfig) {
	if l.WorkingLanguage == "" {
		l.WorkingLanguage = defaultWorkingLanguage
	}
	if l.TranslatorRPS == 0 {
		l.TranslatorRPS = defaultTranslatorRPS
	}
	if l.Timeout == 0 {
		l.Timeout = defaultTranslateTimeout
	}
}

func setModelDefaults(m *ModelConfig) {
	if m.Dir == "" {
		m.Dir = defaultModelDir
	}
	if m.FallbackThreshold == 0 {
		m.FallbackThreshold = defaultFallbackThreshold
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}
