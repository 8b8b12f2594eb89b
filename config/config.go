package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Corpus      CorpusConfig      `mapstructure:"corpus"`
	Interpreter InterpreterConfig `mapstructure:"interpreter"`
	Matching    MatchingConfig    `mapstructure:"matching"`
	Results     ResultsConfig     `mapstructure:"results"`
	Cache       CacheConfig       `mapstructure:"cache"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AdminToken     string        `mapstructure:"admin_token"` // enables POST /api/v1/corpus/reload
}

// CorpusConfig locates the recipe corpus
type CorpusConfig struct {
	Source         string        `mapstructure:"source"` // "file" or "s3"
	Path           string        `mapstructure:"path"`
	S3Bucket       string        `mapstructure:"s3_bucket"`
	S3Key          string        `mapstructure:"s3_key"`
	S3Region       string        `mapstructure:"s3_region"`
	S3Endpoint     string        `mapstructure:"s3_endpoint"`
	ReloadInterval time.Duration `mapstructure:"reload_interval"`
}

// InterpreterConfig holds the language model settings
type InterpreterConfig struct {
	Provider    string        `mapstructure:"provider"` // "ollama", "openrouter" or "none"
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	Burst       int           `mapstructure:"burst"`
	MaxRetries  int           `mapstructure:"max_retries"`
	Temperature float64       `mapstructure:"temperature"`
}

// MatchingConfig tunes ingredient matching and ranking
type MatchingConfig struct {
	FuzzyThreshold       float64 `mapstructure:"fuzzy_threshold"`
	MinContainmentChars  int     `mapstructure:"min_containment_chars"`
	SynonymsPath         string  `mapstructure:"synonyms_path"`
	MandatoryIngredients bool    `mapstructure:"mandatory_ingredients"`
	MinScore             float64 `mapstructure:"min_score"`
	Debug                bool    `mapstructure:"debug"`
}

// ResultsConfig bounds how many candidates a query returns
type ResultsConfig struct {
	Default int `mapstructure:"default"`
	Min     int `mapstructure:"min"`
	Max     int `mapstructure:"max"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL   string        `mapstructure:"redis_url"`
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// LogConfig selects log level and encoding
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from .env, an optional config.yaml and DISHCORD_* variables
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file; an empty path searches the default locations
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/dishcord/")
	}

	v.SetEnvPrefix("DISHCORD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory. Variables already set win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can populate it
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.admin_token", "")

	v.SetDefault("corpus.source", "file")
	v.SetDefault("corpus.path", "data/recipes.json")
	v.SetDefault("corpus.s3_bucket", "")
	v.SetDefault("corpus.s3_key", "")
	v.SetDefault("corpus.s3_region", "")
	v.SetDefault("corpus.s3_endpoint", "")
	v.SetDefault("corpus.reload_interval", "0s")

	v.SetDefault("interpreter.provider", "ollama")
	v.SetDefault("interpreter.base_url", "")
	v.SetDefault("interpreter.model", "")
	v.SetDefault("interpreter.api_key", "")
	v.SetDefault("interpreter.timeout", "20s")
	v.SetDefault("interpreter.rate_limit", 2)
	v.SetDefault("interpreter.burst", 4)
	v.SetDefault("interpreter.max_retries", 2)
	v.SetDefault("interpreter.temperature", 0)

	v.SetDefault("matching.fuzzy_threshold", 0.6)
	v.SetDefault("matching.min_containment_chars", 3)
	v.SetDefault("matching.synonyms_path", "")
	v.SetDefault("matching.mandatory_ingredients", false)
	v.SetDefault("matching.min_score", 0)
	v.SetDefault("matching.debug", false)

	v.SetDefault("results.default", 5)
	v.SetDefault("results.min", 1)
	v.SetDefault("results.max", 10)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.max_entries", 10000)

	v.SetDefault("ratelimit.per_ip", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Corpus.Source {
	case "file":
		if config.Corpus.Path == "" {
			return fmt.Errorf("corpus path is required when corpus source is 'file'")
		}
	case "s3":
		if config.Corpus.S3Bucket == "" || config.Corpus.S3Key == "" {
			return fmt.Errorf("corpus s3_bucket and s3_key are required when corpus source is 's3'")
		}
	default:
		return fmt.Errorf("corpus source must be 'file' or 's3', got: %s", config.Corpus.Source)
	}

	switch config.Interpreter.Provider {
	case "ollama", "none":
	case "openrouter":
		if config.Interpreter.APIKey == "" {
			return fmt.Errorf("interpreter API key is required for openrouter (set DISHCORD_INTERPRETER_API_KEY)")
		}
	default:
		return fmt.Errorf("interpreter provider must be 'ollama', 'openrouter' or 'none', got: %s", config.Interpreter.Provider)
	}

	// A fallback answer is written after the interpreter budget runs out
	if config.Interpreter.Provider != "none" && config.Server.WriteTimeout > 0 &&
		config.Server.WriteTimeout <= config.Interpreter.Timeout {
		return fmt.Errorf("server write_timeout (%v) must exceed interpreter timeout (%v)",
			config.Server.WriteTimeout, config.Interpreter.Timeout)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Results.Min < 1 || config.Results.Min > config.Results.Max {
		return fmt.Errorf("results bounds must satisfy 1 <= min <= max, got min=%d max=%d", config.Results.Min, config.Results.Max)
	}

	if config.Results.Default < config.Results.Min || config.Results.Default > config.Results.Max {
		return fmt.Errorf("results default %d is outside [%d, %d]", config.Results.Default, config.Results.Min, config.Results.Max)
	}

	if config.Matching.FuzzyThreshold <= 0 || config.Matching.FuzzyThreshold > 1 {
		return fmt.Errorf("matching fuzzy_threshold must be in (0, 1], got: %v", config.Matching.FuzzyThreshold)
	}

	return nil
}
