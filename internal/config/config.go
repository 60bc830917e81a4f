package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AdminConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type KafkaTopics struct {
	TransactionsRejected string `mapstructure:"transactions_rejected"`
	AccountsLocked       string `mapstructure:"accounts_locked"`
}

type KafkaConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Brokers []string    `mapstructure:"brokers"`
	Topics  KafkaTopics `mapstructure:"topics"`
}

type Config struct {
	ServiceName string      `mapstructure:"service_name"`
	Env         string      `mapstructure:"env"`
	LogLevel    string      `mapstructure:"log_level"`
	MetricsPath string      `mapstructure:"metrics_path"`
	Admin       AdminConfig `mapstructure:"admin"`
	Kafka       KafkaConfig `mapstructure:"kafka"`
}

// Load reads configuration from the given YAML file (optional) with
// PAYENG_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAYENG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Admin.Enabled && c.Admin.Port <= 0 {
		return fmt.Errorf("admin.port must be positive")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers required")
		}
		if c.Kafka.Topics.TransactionsRejected == "" {
			return fmt.Errorf("kafka.topics.transactions_rejected required")
		}
		if c.Kafka.Topics.AccountsLocked == "" {
			return fmt.Errorf("kafka.topics.accounts_locked required")
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "payment-engine")
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_path", "/metrics")
	v.SetDefault("admin.enabled", false)
	v.SetDefault("admin.host", "0.0.0.0")
	v.SetDefault("admin.port", 8080)
	v.SetDefault("admin.read_timeout", "5s")
	v.SetDefault("admin.write_timeout", "10s")
	v.SetDefault("admin.idle_timeout", "60s")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topics.transactions_rejected", "transactions.rejected")
	v.SetDefault("kafka.topics.accounts_locked", "accounts.locked")
}
