package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "LINKSET"
	configFileName = "linkset"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Events   EventsConfig   `mapstructure:"events"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

type DatabaseConfig struct {
	// Driver is either "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type EventsConfig struct {
	Backend     string `mapstructure:"backend"`
	Compression string `mapstructure:"compression"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

type AuditConfig struct {
	Schedule string `mapstructure:"schedule"`
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".tmp/linkset.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("events.backend", "nop")
	v.SetDefault("events.compression", "nop")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "linkset")
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.topic", "link-changes")
	v.SetDefault("audit.schedule", "@every 1h")
}

// Load reads the configuration from v. Environment variables such as
// LINKSET_DATABASE_DSN override the config file, which overrides defaults.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/linkset")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// LoadConfig loads .env into the environment and then the configuration.
// It exits the process when the configuration cannot be read.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("failed to load .env: %v", err)
	}

	cfg, err := Load(viper.New())
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	return cfg
}
