package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"authgate/internal/pkg/validator"
)

const (
	DefaultJWTKey = "change-me-jwt-key"

	TokenStoreSQL   = "sql"
	TokenStoreRedis = "redis"

	minProdKeyLength = 32
)

type AppConfig struct {
	Env string `mapstructure:"env" validate:"required"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

type AuthConfig struct {
	JWTKey              string        `mapstructure:"jwt_key" validate:"required"`
	AccessTTL           time.Duration `mapstructure:"access_ttl" validate:"gt=0"`
	RefreshTTL          time.Duration `mapstructure:"refresh_ttl" validate:"gt=0"`
	RotateRefreshTokens bool          `mapstructure:"rotate_refresh_tokens"`
}

type TokensConfig struct {
	Store string `mapstructure:"store" validate:"oneof=sql redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

type CleanupConfig struct {
	// Schedule is a six-field cron expression; empty disables the job.
	Schedule string `mapstructure:"schedule"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Tokens   TokensConfig   `mapstructure:"tokens"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// Load reads an optional .env file and config.yaml, then environment
// variables (AUTH_JWT_KEY, DATABASE_URL, ...), over built-in defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.App.Env = strings.ToLower(strings.TrimSpace(cfg.App.Env))
	cfg.Auth.JWTKey = strings.TrimSpace(cfg.Auth.JWTKey)
	cfg.Tokens.Store = strings.ToLower(strings.TrimSpace(cfg.Tokens.Store))
	cfg.CORS.AllowedOrigins = trimAll(cfg.CORS.AllowedOrigins)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.url", "authgate.db")

	v.SetDefault("auth.jwt_key", DefaultJWTKey)
	v.SetDefault("auth.access_ttl", "24h")
	v.SetDefault("auth.refresh_ttl", "120h")
	v.SetDefault("auth.rotate_refresh_tokens", true)

	v.SetDefault("tokens.store", TokenStoreSQL)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cleanup.schedule", "0 */15 * * * *")

	v.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	})
}

func validateConfig(cfg *Config) error {
	if fields := validator.Validate(cfg); len(fields) > 0 {
		names := make([]string, 0, len(fields))
		for name, tag := range fields {
			names = append(names, fmt.Sprintf("%s (%s)", name, tag))
		}
		sort.Strings(names)
		return fmt.Errorf("invalid config: %s", strings.Join(names, ", "))
	}

	if IsProdLike(cfg.App.Env) {
		if cfg.Auth.JWTKey == DefaultJWTKey {
			return fmt.Errorf("in prod/release AUTH_JWT_KEY must be set and not default")
		}
		if len(cfg.Auth.JWTKey) < minProdKeyLength {
			return fmt.Errorf("in prod/release AUTH_JWT_KEY must be at least %d bytes", minProdKeyLength)
		}
	}

	if cfg.Tokens.Store == TokenStoreRedis && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return fmt.Errorf("REDIS_ADDR must not be empty when TOKENS_STORE=redis")
	}

	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
