package config

import (
	"errors"
	"strings"
	"time"

	"github.com/pulseboard/pulseboard/params"
	"github.com/spf13/viper"
)

const (
	DefaultListenAddr = ":3000"
)

type MySQLConfig struct {
	Dsn             string `mapstructure:"dsn"`
	TablePrefix     string `mapstructure:"tablePrefix"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns"`
	MaxOpenConns    int    `mapstructure:"maxOpenConns"`
	ConnMaxIdleTime int    `mapstructure:"connMaxIdleTime"`
	ConnMaxLifetime int    `mapstructure:"connMaxLifetime"`
}

type RedisConfig struct {
	URL         string `mapstructure:"url"`
	PoolSize    int    `mapstructure:"poolSize"`
	ClusterMode bool   `mapstructure:"clusterMode"`
}

type AuthConfig struct {
	// SigningSecret signs every issued token. There is no default; startup
	// fails when it is absent.
	SigningSecret    string        `mapstructure:"signingSecret"`
	TokenValidity    time.Duration `mapstructure:"tokenValidity"`
	PasswordHashCost int           `mapstructure:"passwordHashCost"`
}

// BootstrapConfig seeds the first admin account when the users table is empty.
type BootstrapConfig struct {
	AdminEmail    string `mapstructure:"adminEmail"`
	AdminName     string `mapstructure:"adminName"`
	AdminPassword string `mapstructure:"adminPassword"`
}

type Config struct {
	Debug        bool            `mapstructure:"debug"`
	SiteName     string          `mapstructure:"siteName"`
	BaseURL      string          `mapstructure:"baseURL"`
	ListenAddr   string          `mapstructure:"listenAddr"`
	AllowOrigins []string        `mapstructure:"allowOrigins"`
	Auth         AuthConfig      `mapstructure:"auth"`
	Bootstrap    BootstrapConfig `mapstructure:"bootstrap"`
	Redis        RedisConfig     `mapstructure:"redis"`
	MySQL        MySQLConfig     `mapstructure:"mysql"`
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Auth.SigningSecret == "" {
		return errors.New("auth.signingSecret is required")
	}
	if c.Auth.TokenValidity == 0 {
		c.Auth.TokenValidity = params.TokenValidity
	}
	if c.Auth.PasswordHashCost == 0 {
		c.Auth.PasswordHashCost = params.PasswordHashCost
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
