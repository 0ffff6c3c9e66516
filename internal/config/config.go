package config

import "time"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
}

type ServerConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	GracefulShutdown time.Duration `yaml:"graceful_shutdown"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + itoa(d.Port) + "/" + d.Name + "?sslmode=disable"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	s := ""
	for i > 0 {
		s = string(rune('0'+i%10)) + s
		i /= 10
	}
	return s
}

type RedisConfig struct {
	Addresses []string `yaml:"addresses"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	PoolSize  int      `yaml:"pool_size"`
}

// EmbeddingConfig points at the sentence-embedding sidecar used for
// semantic cache lookups.
type EmbeddingConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Model      string        `yaml:"model"`
	Dimensions int           `yaml:"dimensions"`
	Timeout    time.Duration `yaml:"timeout"`
}

type TelemetryConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsPort int    `yaml:"metrics_port"`
}

// PipelineConfig groups the tunable policy of every pipeline stage.
type PipelineConfig struct {
	Cache      CacheConfig      `yaml:"cache"`
	Analyzer   AnalyzerConfig   `yaml:"analyzer"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Evaluator  EvaluatorConfig  `yaml:"evaluator"`
	Routing    RoutingConfig    `yaml:"routing"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

type CacheConfig struct {
	Enabled             bool          `yaml:"enabled"`
	SimilarityThreshold float64       `yaml:"similarity_threshold"`
	TTL                 time.Duration `yaml:"ttl"`
}

type AnalyzerConfig struct {
	Enabled               bool    `yaml:"enabled"`
	MinWords              int     `yaml:"min_words"`
	CompletenessThreshold float64 `yaml:"completeness_threshold"`
}

type ClassifierConfig struct {
	LengthThreshold int `yaml:"length_threshold"`
}

type EvaluatorConfig struct {
	UpgradeThreshold float64 `yaml:"upgrade_threshold"`
	OptimalMinWords  int     `yaml:"optimal_min_words"`
	OptimalMaxWords  int     `yaml:"optimal_max_words"`
}

type RoutingConfig struct {
	DefaultTimeout time.Duration        `yaml:"default_timeout"`
	RetryBackoff   time.Duration        `yaml:"retry_backoff"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	FailureThreshold      int           `yaml:"failure_threshold"`
	RecoveryProbeInterval time.Duration `yaml:"recovery_probe_interval"`
}

type RateLimitConfig struct {
	Enabled         bool          `yaml:"enabled"`
	RequestsPerMin  int64         `yaml:"requests_per_min"`
	Window          time.Duration `yaml:"window"`
	GuestDailyQuota int64         `yaml:"guest_daily_quota"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      30 * time.Second,
			WriteTimeout:     120 * time.Second,
			IdleTimeout:      120 * time.Second,
			GracefulShutdown: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			Name:            "bridge",
			User:            "bridge",
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addresses: []string{"localhost:6379"},
			DB:        0,
			PoolSize:  50,
		},
		Embedding: EmbeddingConfig{
			BaseURL:    "http://bridge-embedder:8091",
			Model:      "all-MiniLM-L6-v2",
			Dimensions: 384,
			Timeout:    5 * time.Second,
		},
		Telemetry: TelemetryConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsPort: 9090,
		},
		Pipeline: PipelineConfig{
			Cache: CacheConfig{
				Enabled:             true,
				SimilarityThreshold: 0.85,
				TTL:                 0, // entries never expire unless set
			},
			Analyzer: AnalyzerConfig{
				Enabled:               true,
				MinWords:              3,
				CompletenessThreshold: 0.5,
			},
			Classifier: ClassifierConfig{
				LengthThreshold: 15,
			},
			Evaluator: EvaluatorConfig{
				UpgradeThreshold: 0.7,
				OptimalMinWords:  20,
				OptimalMaxWords:  200,
			},
			Routing: RoutingConfig{
				DefaultTimeout: 30 * time.Second,
				RetryBackoff:   2 * time.Second,
				CircuitBreaker: CircuitBreakerConfig{
					FailureThreshold:      5,
					RecoveryProbeInterval: 15 * time.Second,
				},
			},
			RateLimit: RateLimitConfig{
				Enabled:         true,
				RequestsPerMin:  60,
				Window:          time.Minute,
				GuestDailyQuota: 25,
			},
		},
	}
}
