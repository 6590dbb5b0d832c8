package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/ruelucas/booking-service/pkg/kafka"
	"github.com/ruelucas/booking-service/pkg/logger"
	"github.com/ruelucas/booking-service/pkg/mongodb"
	"github.com/ruelucas/booking-service/pkg/postgres"
	"github.com/ruelucas/booking-service/pkg/redis"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"3000"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Storage struct {
	Driver  string        `envconfig:"STORAGE_DRIVER" default:"mongo"`
	Timeout time.Duration `envconfig:"STORAGE_TIMEOUT" default:"5s"`
}

type Booking struct {
	CodePrefix string `envconfig:"CODE_PREFIX" default:"RL"`
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`
}

type Config struct {
	Env      string     `envconfig:"APP_ENV" default:"production"`
	Server   HTTPServer `yaml:"server"`
	Storage  Storage
	Mongo    mongodb.Config
	Database postgres.DB
	Redis    redis.Config
	Kafka    kafka.Config
	Booking  Booking
	Log      logger.Log `yaml:"log"`
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMongo, DriverPostgres:
		return nil
	}
	return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		if config.Server.WriteTimeout == 0 {
			config.Server.WriteTimeout = config.Server.ReadTimeout
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

func printConfig(cfg Config) {
	cfg.Database.Password = "***"
	cfg.Redis.Password = "***"
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
