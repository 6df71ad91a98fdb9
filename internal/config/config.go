package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type SettlementConfig struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	OrderDB    `yaml:"order_db"`
	LogConfig  `yaml:"log_config"`
	Processor  `yaml:"processor"`
	Catalog    `yaml:"catalog"`
	Settlement `yaml:"settlement"`
	KafkaService `yaml:"kafka-service"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type OrderDB struct {
	Dsn           string `yaml:"dsn"`
	MigrationPath string `yaml:"migration_path"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

type Processor struct {
	Address string `yaml:"address"`
	// WebhookSecret signs inbound event notifications.
	WebhookSecret string        `yaml:"webhook_secret" env:"PROCESSOR_WEBHOOK_SECRET"`
	Timeout       time.Duration `yaml:"timeout" env-default:"10s"`
	// SignatureTolerance bounds how old a signed event timestamp may be.
	SignatureTolerance time.Duration `yaml:"signature_tolerance" env-default:"5m"`
}

type Catalog struct {
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type Settlement struct {
	CommissionRateBps int32 `yaml:"commission_rate_bps"`
	// PendingOrderTTL - pending orders that never got an external payment ref
	// are cancelled by the sweeper after this long.
	PendingOrderTTL time.Duration `yaml:"pending_order_ttl" env-default:"30m"`
	SweepInterval   time.Duration `yaml:"sweep_interval" env-default:"1m"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"settlement-events"`
}

func MustLoad() *SettlementConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
