package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port        int      `yaml:"port"`
	GinMode     string   `yaml:"gin_mode"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	Audience   string `yaml:"audience"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type DivinationConfig struct {
	InitialFreeCount  int    `yaml:"initial_free_count"`
	GenerationTimeout string `yaml:"generation_timeout"`
}

type RateLimitConfig struct {
	Window      string `yaml:"window"`
	MaxRequests int    `yaml:"max_requests"`
}

type ConfigFile struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	Divination DivinationConfig `yaml:"divination"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

// Config is the fully parsed runtime configuration. It is constructed once at
// startup and handed to every constructor; nothing reads the environment
// after Load returns.
type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration

	InitialFreeCount  int
	GenerationTimeout time.Duration

	RateLimitWindow time.Duration
	RateLimitMax    int
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads the yaml config file and applies environment overrides for the
// deployment-specific values (connection strings and the signing secret).
func Load(path string) (*Config, error) {
	file, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(file.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	refTTL, err := time.ParseDuration(file.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}
	genTimeout, err := time.ParseDuration(file.Divination.GenerationTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid generation timeout: %w", err)
	}
	rlWindow, err := time.ParseDuration(file.RateLimit.Window)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := &Config{
		Port:        env("PORT", fmt.Sprintf("%d", file.App.Port)),
		GinMode:     file.App.GinMode,
		CORSOrigins: file.App.CORSOrigins,

		DSN:           env("DATABASE_DSN", file.Database.DSN),
		RedisAddr:     env("REDIS_ADDR", file.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", file.Redis.Password),
		RedisDB:       file.Redis.DB,

		JWTSecret:   env("JWT_SECRET", file.JWT.Secret),
		JWTIssuer:   file.JWT.Issuer,
		JWTAudience: file.JWT.Audience,
		AccessTTL:   accTTL,
		RefreshTTL:  refTTL,

		InitialFreeCount:  file.Divination.InitialFreeCount,
		GenerationTimeout: genTimeout,

		RateLimitWindow: rlWindow,
		RateLimitMax:    file.RateLimit.MaxRequests,
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if cfg.InitialFreeCount < 0 {
		return nil, fmt.Errorf("initial free count must not be negative")
	}

	return cfg, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var file ConfigFile
	if err := yaml.Unmarshal(bytes, &file); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &file, nil
}
