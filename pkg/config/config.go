package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	MySQLUser     string `envconfig:"MYSQL_USER" default:"root"`
	MySQLPassword string `envconfig:"MYSQL_PASSWORD" default:""`
	MySQLHost     string `envconfig:"MYSQL_HOST" default:"localhost"`
	MySQLPort     string `envconfig:"MYSQL_PORT" default:"3306"`
	MySQLDatabase string `envconfig:"MYSQL_DATABASE" default:"storefront"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	RabbitURL     string `envconfig:"RABBITMQ_URL" default:""`
	EventExchange string `envconfig:"EVENT_EXCHANGE" default:"order.events"`

	CatalogURL  string `envconfig:"CATALOG_SERVICE_URL" default:"http://localhost:8081"`
	UsersURL    string `envconfig:"USERS_SERVICE_URL" default:"http://localhost:8082"`
	SettingsURL string `envconfig:"SETTINGS_SERVICE_URL" default:"http://localhost:8083"`

	TelegramToken  string `envconfig:"TELEGRAM_BOT_TOKEN" default:""`
	TelegramChatID int64  `envconfig:"TELEGRAM_CHAT_ID" default:"0"`

	ClientTimeout time.Duration `envconfig:"CLIENT_TIMEOUT" default:"2s"`
	NotifyTimeout time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"5s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.MySQLUser, c.MySQLPassword, c.MySQLHost, c.MySQLPort, c.MySQLDatabase)
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
