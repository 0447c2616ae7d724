package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR,default=:8080"`

	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	StockAPIBaseURL string        `env:"STOCK_API_BASE_URL,default=https://www.alphavantage.co/query"`
	StockAPIKey     string        `env:"STOCK_API_KEY,required"`
	StockAPITimeout time.Duration `env:"STOCK_API_TIMEOUT,default=10s"`

	AWSRegion      string `env:"AWS_REGION,default=us-east-1"`
	SNSTopicARN    string `env:"SNS_TOPIC_ARN,required"`
	SESSenderEmail string `env:"SES_SENDER_EMAIL,required"`

	// Twice-daily alert sweep, standard cron syntax. Empty selects the
	// built-in 10:00/15:00 schedule.
	SweepSchedule string `env:"SWEEP_SCHEDULE"`
	SweepTimezone string `env:"SWEEP_TIMEZONE,default=Local"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
