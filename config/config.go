package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HttpServer    HttpServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	HttpClient    HttpClientConfig
	MessageStream MessageStreamConfig
	UserService   UserServiceConfig
	PayPal        PayPalConfig
	Fee           FeeConfig
	Withdrawal    WithdrawalConfig
}

type HttpServerConfig struct {
	Port string `envconfig:"HTTP_SERVER_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host         string `envconfig:"DB_HOST" default:"localhost"`
	Port         string `envconfig:"DB_PORT" default:"5432"`
	User         string `envconfig:"DB_USER" default:"postgres"`
	Password     string `envconfig:"DB_PASSWORD"`
	Name         string `envconfig:"DB_NAME" default:"rental"`
	SSLMode      string `envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type HttpClientConfig struct {
	Timeout   time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"10s"`
	Threshold int64         `envconfig:"HTTP_CLIENT_THRESHOLD" default:"5"`
	// Type selects the breaker: "consecutive" or "threshold".
	Type string `envconfig:"HTTP_CLIENT_TYPE" default:"consecutive"`
}

type MessageStreamConfig struct {
	Host         string `envconfig:"AMQP_HOST" default:"localhost"`
	Port         string `envconfig:"AMQP_PORT" default:"5672"`
	Username     string `envconfig:"AMQP_USERNAME" default:"guest"`
	Password     string `envconfig:"AMQP_PASSWORD" default:"guest"`
	ExchangeName string `envconfig:"AMQP_EXCHANGE_NAME" default:"rental"`
}

type UserServiceConfig struct {
	Host string `envconfig:"USER_SERVICE_HOST" default:"localhost"`
	Port string `envconfig:"USER_SERVICE_PORT" default:"8081"`
}

type PayPalConfig struct {
	BaseURL      string        `envconfig:"PAYPAL_API_BASE_URL" default:"https://api-m.sandbox.paypal.com"`
	ClientID     string        `envconfig:"PAYPAL_CLIENT_ID"`
	ClientSecret string        `envconfig:"PAYPAL_CLIENT_SECRET"`
	Timeout      time.Duration `envconfig:"PAYPAL_TIMEOUT" default:"15s"`
}

// FeeConfig rates are basis points (500 = 5%).
type FeeConfig struct {
	BookingFeeBPS          int64  `envconfig:"BOOKING_FEE_BPS" default:"500"`
	ServiceFeeBPS          int64  `envconfig:"SERVICE_FEE_BPS" default:"500"`
	AffiliateDiscountBPS   int64  `envconfig:"AFFILIATE_DISCOUNT_BPS" default:"1000"`
	AffiliateCommissionBPS int64  `envconfig:"AFFILIATE_COMMISSION_BPS" default:"1000"`
	DefaultCurrency        string `envconfig:"DEFAULT_CURRENCY" default:"usd"`
}

type WithdrawalConfig struct {
	LockTTL    time.Duration `envconfig:"WITHDRAWAL_LOCK_TTL" default:"30s"`
	RetryDelay time.Duration `envconfig:"WITHDRAWAL_RETRY_DELAY" default:"5m"`
	MaxRetry   int           `envconfig:"WITHDRAWAL_MAX_RETRY" default:"10"`
}

func InitConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading configuration from environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("error load config: %v", err)
	}

	return &cfg
}
