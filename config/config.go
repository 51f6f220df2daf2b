package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/joripage/matching-engine/pkg/feed"
	postgres_wrapper "github.com/joripage/matching-engine/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/matching-engine/pkg/infra/redis"
	"github.com/joripage/matching-engine/pkg/marketdata"
	"github.com/joripage/matching-engine/pkg/simulator"
)

type NatsConfig struct {
	URL          string `yaml:"url"`
	Stream       string `yaml:"stream"`
	EventSubject string `yaml:"event_subject"`
	TradeSubject string `yaml:"trade_subject"`
	Durable      string `yaml:"durable"`
}

type AppConfig struct {
	ServiceName string                           `yaml:"service_name"`
	LogLevel    string                           `yaml:"log_level"`
	EngineDB    *postgres_wrapper.PostgresConfig `yaml:"engine_db"`
	Redis       *redis_wrapper.RedisConfig       `yaml:"redis"`
	Kafka       *feed.Config                     `yaml:"kafka"`
	Nats        *NatsConfig                      `yaml:"nats"`
	MarketData  *marketdata.Config               `yaml:"market_data"`
	Simulator   *simulator.Config                `yaml:"simulator"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
