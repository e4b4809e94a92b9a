package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	Port        string `env:"PORT" envDefault:"8080"`
	UseHTTPS    bool   `env:"USE_HTTPS" envDefault:"false"`
	IngestToken string `env:"INGEST_TOKEN"`
}

type Database struct {
	Path string `env:"DATABASE_PATH" envDefault:"audit_console.db"`
}

type OIDC struct {
	Domain       string `env:"OIDC_DOMAIN"`
	ClientID     string `env:"OIDC_CLIENT_ID"`
	ClientSecret string `env:"OIDC_CLIENT_SECRET"`
	CallbackURL  string `env:"OIDC_CALLBACK_URL"`
}

// Enabled reports whether operator login is configured
func (o OIDC) Enabled() bool {
	return o.Domain != ""
}

type Logging struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30"`
}

type Kafka struct {
	BootstrapServers string `env:"KAFKA_BOOTSTRAP_SERVERS"`
	AuditTopic       string `env:"KAFKA_AUDIT_TOPIC" envDefault:"audit-events"`
}

// Enabled reports whether audit entries are published to Kafka
func (k Kafka) Enabled() bool {
	return k.BootstrapServers != ""
}

type Config struct {
	Server   Server
	Database Database
	OIDC     OIDC
	Logging  Logging
	Kafka    Kafka
}

// Load reads .env if present and parses the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("Could not load .env file.")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
