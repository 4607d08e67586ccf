package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host           string
	Port           int
	DevMode        bool
	ReadOnly       bool
	RateLimitRPS   float64
	RateLimitBurst int
}

// Addr returns the listen address as host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerConfig extracts the "server" section from v. Keys are read one at a
// time so that environment overrides apply.
func ServerConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Host:           v.GetString("server.host"),
		Port:           v.GetInt("server.port"),
		DevMode:        v.GetBool("server.dev_mode"),
		ReadOnly:       v.GetBool("server.read_only"),
		RateLimitRPS:   v.GetFloat64("server.rate_limit_rps"),
		RateLimitBurst: v.GetInt("server.rate_limit_burst"),
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("server.port %d out of range", cfg.Port)
	}
	return cfg, nil
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(configPath string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8086)
	v.SetDefault("server.dev_mode", false)
	v.SetDefault("server.read_only", false)
	v.SetDefault("server.rate_limit_rps", 50)
	v.SetDefault("server.rate_limit_burst", 100)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/velocitycmdb.db")

	v.SetDefault("locator.arp_database", "")
	v.SetDefault("locator.timeout", "10s")
	v.SetDefault("capture.retention", "720h")
	v.SetDefault("capture.prune_interval", "1h")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("velocitycmdb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/velocitycmdb")
	}

	// Environment variable support: VCMDB_SERVER_PORT=9090
	v.SetEnvPrefix("VCMDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}
