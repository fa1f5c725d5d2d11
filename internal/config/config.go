package config

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/horockey/ibp/internal/balances"
	"github.com/spf13/viper"
)

const envPrefix = "IBP"

type Config struct {
	Node struct {
		ListenPort int    `mapstructure:"listen_port"`
		APIKey     string `mapstructure:"api_key"`
		AdminKey   string `mapstructure:"admin_key"`
	} `mapstructure:"node"`

	Storage struct {
		// Empty dir keeps state in memory.
		BadgerDir string `mapstructure:"badger_dir"`
	} `mapstructure:"storage"`

	Ledger struct {
		RewardAmount string `mapstructure:"reward_amount"`
		TestMode     bool   `mapstructure:"test_mode"`
	} `mapstructure:"ledger"`

	Metrics struct {
		Enabled       bool   `mapstructure:"enabled"`
		ListenAddress string `mapstructure:"listen_address"`
	} `mapstructure:"metrics"`

	Log struct {
		Level  string `mapstructure:"level"`
		Pretty bool   `mapstructure:"pretty"`
	} `mapstructure:"log"`
}

// LoadConfig reads defaults, then the yaml file at configPath (or config.yaml
// in the usual places), then IBP_* environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/ibp")
	}
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("node.listen_port", 7000)
	v.SetDefault("node.api_key", "")
	v.SetDefault("node.admin_key", "")

	v.SetDefault("storage.badger_dir", "./badger")

	v.SetDefault("ledger.reward_amount", "1")
	v.SetDefault("ledger.test_mode", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen_address", "0.0.0.0:9100")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
}

func (cfg *Config) Validate() error {
	if cfg.Node.APIKey == "" {
		return errors.New("node.api_key must be set")
	}
	if cfg.Node.ListenPort <= 0 || cfg.Node.ListenPort > 65535 {
		return fmt.Errorf("node.listen_port out of range: %d", cfg.Node.ListenPort)
	}
	if _, err := cfg.RewardAmount(); err != nil {
		return err
	}
	return nil
}

func (cfg *Config) RewardAmount() (*big.Int, error) {
	res, ok := new(big.Int).SetString(cfg.Ledger.RewardAmount, 10)
	if !ok || res.Sign() < 0 {
		return nil, fmt.Errorf("ledger.reward_amount must be a non-negative integer, got %q", cfg.Ledger.RewardAmount)
	}
	if res.Cmp(balances.MaxBalance) > 0 {
		return nil, fmt.Errorf("ledger.reward_amount exceeds 2^128-1, got %q", cfg.Ledger.RewardAmount)
	}
	return res, nil
}
