package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/nichepilot/nichepilot-go/internal/utils"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Telegram    TelegramConfig  `mapstructure:"telegram"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	Intel       IntelConfig     `mapstructure:"intel"`
	Analysis    AnalysisConfig  `mapstructure:"analysis"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// IntelConfig controls the keyword-intelligence signal store and its cache.
type IntelConfig struct {
	CacheTTL string `mapstructure:"cache_ttl"`
}

// WeightsConfig holds the contribution weight of each rule evaluator.
// Weights are not normalized at aggregation time; a sum other than 1.0 is an
// intentional inflation or deflation of the overall score.
type WeightsConfig struct {
	PriceBarrier   float64 `mapstructure:"price_barrier"`
	BrandDominance float64 `mapstructure:"brand_dominance"`
	KeywordVolume  float64 `mapstructure:"keyword_volume"`
	ReviewVelocity float64 `mapstructure:"review_velocity"`
	TitleDensity   float64 `mapstructure:"title_density"`
	Triangulation  float64 `mapstructure:"triangulation"`
}

// AnalysisConfig holds the rule thresholds and decision bands. It is loaded
// once at process start and treated as read-only for the lifetime of every
// evaluation.
type AnalysisConfig struct {
	PriceBarrierUSD    float64       `mapstructure:"price_barrier_usd"`
	PriceBarrierEUR    float64       `mapstructure:"price_barrier_eur"`
	DominanceThreshold float64       `mapstructure:"dominance_threshold"`
	MinKeywordVolume   int           `mapstructure:"min_keyword_volume"`
	VarianceThreshold  float64       `mapstructure:"variance_threshold"`
	Weights            WeightsConfig `mapstructure:"weights"`
	GreenThreshold     float64       `mapstructure:"green_threshold"`
	YellowThreshold    float64       `mapstructure:"yellow_threshold"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration for structural errors. A failure here is
// fatal: no evaluation may start with an invalid configuration.
func (c *Config) Validate() error {
	a := &c.Analysis

	if a.PriceBarrierUSD <= 0 {
		return utils.NewConfigErrorf("analysis.price_barrier_usd", "price floor must be positive, got %v", a.PriceBarrierUSD)
	}
	if a.PriceBarrierEUR <= 0 {
		return utils.NewConfigErrorf("analysis.price_barrier_eur", "price floor must be positive, got %v", a.PriceBarrierEUR)
	}
	if a.DominanceThreshold <= 0 || a.DominanceThreshold > 1 {
		return utils.NewConfigErrorf("analysis.dominance_threshold", "must be in (0, 1], got %v", a.DominanceThreshold)
	}
	if a.MinKeywordVolume <= 0 {
		return utils.NewConfigErrorf("analysis.min_keyword_volume", "must be positive, got %d", a.MinKeywordVolume)
	}
	if a.VarianceThreshold <= 0 {
		return utils.NewConfigErrorf("analysis.variance_threshold", "must be positive, got %v", a.VarianceThreshold)
	}

	weights := map[string]float64{
		"weights.price_barrier":   a.Weights.PriceBarrier,
		"weights.brand_dominance": a.Weights.BrandDominance,
		"weights.keyword_volume":  a.Weights.KeywordVolume,
		"weights.review_velocity": a.Weights.ReviewVelocity,
		"weights.title_density":   a.Weights.TitleDensity,
		"weights.triangulation":   a.Weights.Triangulation,
	}
	for field, w := range weights {
		if w < 0 {
			return utils.NewConfigErrorf("analysis."+field, "weight must be non-negative, got %v", w)
		}
	}

	if a.YellowThreshold >= a.GreenThreshold {
		return utils.NewConfigErrorf("analysis.yellow_threshold",
			"yellow threshold (%v) must be below green threshold (%v)", a.YellowThreshold, a.GreenThreshold)
	}

	if c.Intel.CacheTTL != "" {
		if _, err := time.ParseDuration(c.Intel.CacheTTL); err != nil {
			return utils.NewConfigErrorf("intel.cache_ttl", "invalid duration: %v", err)
		}
	}

	return nil
}

// IntelCacheTTL returns the parsed cache TTL. Validate guarantees the value
// parses; the fallback only covers zero-value configs built in tests.
func (c *Config) IntelCacheTTL() time.Duration {
	if c.Intel.CacheTTL == "" {
		return time.Hour
	}
	ttl, err := time.ParseDuration(c.Intel.CacheTTL)
	if err != nil {
		return time.Hour
	}
	return ttl
}

// Default returns a configuration populated with the default thresholds and
// weights. Used by tests and by callers that embed the engine directly.
func Default() *Config {
	return &Config{
		Environment: "development",
		LogLevel:    "info",
		Server:      ServerConfig{Port: 8080},
		Intel:       IntelConfig{CacheTTL: "1h"},
		Analysis: AnalysisConfig{
			PriceBarrierUSD:    39.0,
			PriceBarrierEUR:    39.0,
			DominanceThreshold: 0.50,
			MinKeywordVolume:   3000,
			VarianceThreshold:  0.30,
			Weights: WeightsConfig{
				PriceBarrier:   0.25,
				BrandDominance: 0.25,
				KeywordVolume:  0.20,
				ReviewVelocity: 0.10,
				TitleDensity:   0.10,
				Triangulation:  0.10,
			},
			GreenThreshold:  70.0,
			YellowThreshold: 40.0,
		},
	}
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "nichepilot")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Telegram
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.chat_id", "")

	// Telemetry
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.endpoint", "")

	// Intel
	viper.SetDefault("intel.cache_ttl", "1h")

	// Analysis thresholds
	viper.SetDefault("analysis.price_barrier_usd", 39.0)
	viper.SetDefault("analysis.price_barrier_eur", 39.0)
	viper.SetDefault("analysis.dominance_threshold", 0.50)
	viper.SetDefault("analysis.min_keyword_volume", 3000)
	viper.SetDefault("analysis.variance_threshold", 0.30)

	// Scoring weights
	viper.SetDefault("analysis.weights.price_barrier", 0.25)
	viper.SetDefault("analysis.weights.brand_dominance", 0.25)
	viper.SetDefault("analysis.weights.keyword_volume", 0.20)
	viper.SetDefault("analysis.weights.review_velocity", 0.10)
	viper.SetDefault("analysis.weights.title_density", 0.10)
	viper.SetDefault("analysis.weights.triangulation", 0.10)

	// Decision bands
	viper.SetDefault("analysis.green_threshold", 70.0)
	viper.SetDefault("analysis.yellow_threshold", 40.0)
}
