package api_config

import (
	"time"

	"github.com/NordCoder/Animetrack/internal/obs"
	"github.com/NordCoder/Animetrack/internal/outbox"
	"github.com/NordCoder/Animetrack/internal/repository/kafka"
	pg "github.com/NordCoder/Animetrack/internal/repository/postgres"
	rds "github.com/NordCoder/Animetrack/internal/repository/redis"
)

// Backends accepted by auth.refresh_store.
const (
	RefreshStoreRedis    = "redis"
	RefreshStorePostgres = "postgres"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Auth struct {
	AccessSecret  string        `mapstructure:"access_secret"`
	RefreshSecret string        `mapstructure:"refresh_secret"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	RefreshStore  string        `mapstructure:"refresh_store"`
	PurgeInterval time.Duration `mapstructure:"purge_interval"`
}

type Events struct {
	Enable  bool                `mapstructure:"enable"`
	Brokers []string            `mapstructure:"brokers"`
	Topic   kafka.TopicSpec     `mapstructure:"topic"`
	Outbox  outbox.RunnerConfig `mapstructure:"outbox"`
}

type Config struct {
	App    App            `mapstructure:"app"`
	Server Server         `mapstructure:"server"`
	DB     pg.Config      `mapstructure:"db"`
	Redis  rds.Config     `mapstructure:"redis"`
	OTEL   obs.OTELConfig `mapstructure:"otel"`
	Log    Log            `mapstructure:"log"`
	Auth   Auth           `mapstructure:"auth"`
	Events Events         `mapstructure:"events"`
}

func (c *Config) LogConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    c.App.Name,
		Env:    c.App.Env,
		Ver:    c.App.Version,
	}
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }

const (
	ErrNoDSN          = ErrConfig("db.dsn is empty")
	ErrNoSecrets      = ErrConfig("auth.access_secret and auth.refresh_secret must be set")
	ErrSharedSecret   = ErrConfig("auth.access_secret and auth.refresh_secret must differ")
	ErrRefreshStore   = ErrConfig("auth.refresh_store must be redis or postgres")
	ErrNoEventBrokers = ErrConfig("events.enable requires events.brokers")
)
