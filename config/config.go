package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"car-advisor/service"
)

type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type RateLimitConfig struct {
	Capacity       int           `mapstructure:"capacity"`
	RefillInterval time.Duration `mapstructure:"refill_interval"`
}

type RedisConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type AIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// PolicyConfig exposes the decision policy cutoffs for tuning without a
// deploy of new engine code. Zero values mean "keep the default".
type PolicyConfig struct {
	VerdictStressGap   float64 `mapstructure:"verdict_stress_gap"`
	HighConfidenceGap  float64 `mapstructure:"high_confidence_gap"`
	IncomeShockPercent float64 `mapstructure:"income_shock_percent"`
	MaxRiskFlags       int     `mapstructure:"max_risk_flags"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	AI        AIConfig        `mapstructure:"ai"`
	Policy    PolicyConfig    `mapstructure:"policy"`
}

// Load reads configuration from an optional YAML file, with CARADVISOR_*
// environment variables taking precedence and defaults filling the rest.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CARADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The unprefixed OpenAI variable is honored too.
	_ = v.BindEnv("ai.api_key", "OPENAI_API_KEY")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)

	v.SetDefault("rate_limit.capacity", 5)
	v.SetDefault("rate_limit.refill_interval", time.Minute)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.ttl", time.Hour)

	v.SetDefault("ai.model", "gpt-4o-mini")
}

func validate(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if cfg.RateLimit.Capacity <= 0 {
		return fmt.Errorf("rate_limit.capacity must be greater than 0")
	}
	if cfg.RateLimit.RefillInterval <= 0 {
		return fmt.Errorf("rate_limit.refill_interval must be greater than 0")
	}
	if cfg.Redis.Enabled && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis.addr cannot be empty when redis is enabled")
	}
	if cfg.Policy.VerdictStressGap < 0 || cfg.Policy.HighConfidenceGap < 0 {
		return fmt.Errorf("policy gaps must not be negative")
	}
	if cfg.Policy.IncomeShockPercent < 0 || cfg.Policy.IncomeShockPercent > service.MaxIncomeShockPercent {
		return fmt.Errorf("policy.income_shock_percent must be between 0 and %.0f", service.MaxIncomeShockPercent)
	}
	if cfg.Policy.MaxRiskFlags < 0 {
		return fmt.Errorf("policy.max_risk_flags must not be negative")
	}
	return nil
}

// DecisionPolicy merges the configured overrides onto the default policy.
func (c *Config) DecisionPolicy() service.Policy {
	pol := service.DefaultPolicy()
	if c.Policy.VerdictStressGap > 0 {
		pol.VerdictStressGap = c.Policy.VerdictStressGap
	}
	if c.Policy.HighConfidenceGap > 0 {
		pol.HighConfidenceGap = c.Policy.HighConfidenceGap
	}
	if c.Policy.IncomeShockPercent > 0 {
		pol.IncomeShockPercent = c.Policy.IncomeShockPercent
	}
	if c.Policy.MaxRiskFlags > 0 {
		pol.MaxRiskFlags = c.Policy.MaxRiskFlags
	}
	return pol
}
