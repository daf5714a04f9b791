// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Web        ServerConfig
	API        APIConfig
	Remote     RemoteConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
	Repository RepositoryConfig
	Seed       SeedConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type APIConfig struct {
	ServerConfig
	RateLimitRPM   int
	RequestTimeout time.Duration
}

// RemoteConfig - адрес ресурса /todos, с которым работает клиент
type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
	MinConnections int
	IdleTimeout    time.Duration
}

type LoggingConfig struct {
	Development bool
}

type RepositoryConfig struct {
	Type string // "postgres" или "inmemory"
}

// SeedConfig - файл в формате db.json, которым наполняется inmemory хранилище
type SeedConfig struct {
	File             string
	SnapshotInterval time.Duration
}

const (
	RepositoryInMemory = "inmemory"
	RepositoryPostgres = "postgres"
)

// Load читает config.yml из текущей директории или ./config,
// переменные окружения TODO_* имеют приоритет
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	return load(v)
}

// LoadFile читает конфиг из явно указанного файла
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("todo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения конфига: %w", err)
		}
	}

	cfg := &Config{
		Web: ServerConfig{
			Host: v.GetString("web.host"),
			Port: v.GetString("web.port"),
		},
		API: APIConfig{
			ServerConfig: ServerConfig{
				Host: v.GetString("api.host"),
				Port: v.GetString("api.port"),
			},
			RateLimitRPM:   v.GetInt("api.rate_limit_rpm"),
			RequestTimeout: v.GetDuration("api.request_timeout"),
		},
		Remote: RemoteConfig{
			BaseURL: v.GetString("remote.base_url"),
			Timeout: v.GetDuration("remote.timeout"),
		},
		Database: DatabaseConfig{
			URL:            v.GetString("database.url"),
			MaxConnections: v.GetInt("database.max_connections"),
			MinConnections: v.GetInt("database.min_connections"),
			IdleTimeout:    v.GetDuration("database.idle_timeout"),
		},
		Logging: LoggingConfig{
			Development: v.GetBool("logging.development"),
		},
		Repository: RepositoryConfig{
			Type: strings.ToLower(v.GetString("repository.type")),
		},
		Seed: SeedConfig{
			File:             v.GetString("seed.file"),
			SnapshotInterval: v.GetDuration("seed.snapshot_interval"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("web.host", "")
	v.SetDefault("web.port", "3000")

	v.SetDefault("api.host", "")
	v.SetDefault("api.port", "5000")
	v.SetDefault("api.rate_limit_rpm", 600)
	v.SetDefault("api.request_timeout", 30*time.Second)

	v.SetDefault("remote.base_url", "http://localhost:5000")
	v.SetDefault("remote.timeout", 0)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)

	v.SetDefault("logging.development", true)

	v.SetDefault("repository.type", RepositoryInMemory)

	v.SetDefault("seed.file", "db.json")
	v.SetDefault("seed.snapshot_interval", 0)
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryInMemory:
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("для repository.type=postgres нужен database.url")
		}
	default:
		return fmt.Errorf("неизвестный repository.type: %q", c.Repository.Type)
	}

	if c.Remote.BaseURL == "" {
		return errors.New("remote.base_url не может быть пустым")
	}
	return nil
}

func (c *Config) WebAddr() string {
	return fmt.Sprintf("%s:%s", c.Web.Host, c.Web.Port)
}

func (c *Config) APIAddr() string {
	return fmt.Sprintf("%s:%s", c.API.Host, c.API.Port)
}
