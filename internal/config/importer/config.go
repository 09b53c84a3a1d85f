package importer_config

import (
	"github.com/NordCoder/Animetrack/internal/obs"
	pg "github.com/NordCoder/Animetrack/internal/repository/postgres"
	"github.com/NordCoder/Animetrack/internal/services/importer"
)

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type Import struct {
	// Source is a local path or s3://bucket/key.
	Source    string `mapstructure:"source"`
	BatchSize int    `mapstructure:"batch_size"`
}

type Config struct {
	DB     pg.Config         `mapstructure:"db"`
	S3     importer.S3Config `mapstructure:"s3"`
	Import Import            `mapstructure:"import"`
	Log    Log               `mapstructure:"log"`
}

func (c *Config) LogConfig() obs.LogConfig {
	return obs.LogConfig{Level: c.Log.Level, Pretty: c.Log.Pretty, App: "animetrack/importer"}
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }
