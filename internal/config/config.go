// Package config loads bitcoin-echo's CLI configuration from flags,
// environment variables, and an optional config file, via viper.
package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved CLI configuration.
type Config struct {
	Testnet   bool
	Peer      string
	CachePath string
	LogLevel  string
}

// Load builds a Config from flags (already registered on flagSet),
// environment variables prefixed BITCOIN_ECHO_, and a .bitcoin-echo.yaml
// file in the current or home directory.
func Load(flagSet *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("bitcoin_echo")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(".bitcoin-echo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	if flagSet != nil {
		if err := v.BindPFlags(flagSet); err != nil {
			return nil, err
		}
	}

	v.SetDefault("peer", "127.0.0.1:8333")
	v.SetDefault("cache-path", "bitcoin-echo-cache.json")
	v.SetDefault("log-level", "info")

	return &Config{
		Testnet:   v.GetBool("testnet"),
		Peer:      v.GetString("peer"),
		CachePath: v.GetString("cache-path"),
		LogLevel:  v.GetString("log-level"),
	}, nil
}
