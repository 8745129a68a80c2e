package config

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Poll     PollConfig
	Stream   StreamConfig
	Clipper  ClipperConfig
	Redis    RedisConfig
	Postgres DBConfig
	Logger   Logger
}

type ServerConfig struct {
	AppVersion string
	Port       string
	Mode       string
}

// BackendConfig points at the external processing engine.
type BackendConfig struct {
	APIURL         string
	WSURL          string
	RequestTimeout int
}

type PollConfig struct {
	IntervalSeconds int
}

type StreamConfig struct {
	ReconnectDelaySeconds int
}

type ClipperConfig struct {
	MaxClips int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr          string
	RedisPassword      string
	DB                 int
	MinIdleConns       int
	PoolSize           int
	PoolTimeout        int
	SnapshotTTLSeconds int
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.Poll.IntervalSeconds <= 0 {
		c.Poll.IntervalSeconds = 2
	}
	if c.Stream.ReconnectDelaySeconds <= 0 {
		c.Stream.ReconnectDelaySeconds = 3
	}
	if c.Clipper.MaxClips <= 0 {
		c.Clipper.MaxClips = 5
	}
	return &c, nil
}
