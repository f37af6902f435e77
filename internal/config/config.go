package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API         *APIConfig         `mapstructure:"api"`
	Gin         *GinConfig         `mapstructure:"gin"`
	Postgres    *PostgresConfig    `mapstructure:"postgres"`
	Certificate *CertificateConfig `mapstructure:"certificate"`
}

type APIConfig struct {
	Environment        string `mapstructure:"environment"`
	BaseURL            string `mapstructure:"base_url"`
	Port               string `mapstructure:"port"`
	JWTSigningKey      string `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
}

// CertificateConfig drives attestation rendering. VerificationBaseURL is the
// public origin baked into QR codes, so it must be reachable from outside.
type CertificateConfig struct {
	Organisme           string `mapstructure:"organisme"`
	VerificationBaseURL string `mapstructure:"verification_base_url"`
}

func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)

	// Secrets come from the environment in deployed setups, e.g.
	// API_JWT_SIGNING_KEY or POSTGRES_PASSWORD.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	viper.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed", zap.String("file", e.Name))

		if err := viper.Unmarshal(conf); err != nil {
			zap.L().Error("failed to reload config", zap.Error(err))
		}
	})
	viper.WatchConfig()

	return conf, nil
}
