package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env:"LISTEN_BIND_IP" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env:"LISTEN_PORT" env-default:"8080"`
}

type MongoConfig struct {
	Host     string `yaml:"host" env:"MONGO_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
	User     string `yaml:"user" env:"MONGO_USER" env-default:""`
	Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"clubconnect"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST" env-default:""`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"user" env:"SMTP_USER" env-default:""`
	Password string `yaml:"password" env:"SMTP_PASSWORD" env-default:""`
	From     string `yaml:"from" env:"SMTP_FROM" env-default:""`
}

type SmsConfig struct {
	ApiUrl string `yaml:"api_url" env:"SMS_API_URL" env-default:""`
	ApiKey string `yaml:"api_key" env:"SMS_API_KEY" env-default:""`
	Sender string `yaml:"sender" env:"SMS_SENDER" env-default:"CLUBCONNECT"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled" env:"TELEGRAM_ENABLED" env-default:"false"`
	ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
	ChatId  int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID" env-default:"0"`
}

type StripeConfig struct {
	APIKey     string `yaml:"api_key" env:"STRIPE_API_KEY" env-default:""`
	SuccessUrl string `yaml:"success_url" env:"STRIPE_SUCCESS_URL" env-default:""`
	CancelUrl  string `yaml:"cancel_url" env:"STRIPE_CANCEL_URL" env-default:""`
}

type AuthConfig struct {
	JwtSecret   string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-default:""`
	TokenTTLMin int    `yaml:"token_ttl_min" env:"AUTH_TOKEN_TTL_MIN" env-default:"720"`
}

type AppConfig struct {
	// BaseUrl is embedded in approve/reject links sent by email.
	BaseUrl string `yaml:"base_url" env:"APP_BASE_URL" env-default:"http://localhost:8080"`
	// OtpTTLMin bounds the life of signup and deletion OTP challenges.
	OtpTTLMin int `yaml:"otp_ttl_min" env:"APP_OTP_TTL_MIN" env-default:"5"`
	// ResetOtpTTLMin bounds password-reset OTP challenges.
	ResetOtpTTLMin int `yaml:"reset_otp_ttl_min" env:"APP_RESET_OTP_TTL_MIN" env-default:"10"`
	// ApprovalRetentionDays bounds club-join approval tokens.
	ApprovalRetentionDays int `yaml:"approval_retention_days" env:"APP_APPROVAL_RETENTION_DAYS" env-default:"7"`
	// SweepSchedule is a cron expression for the expired-entry reaper.
	SweepSchedule  string   `yaml:"sweep_schedule" env:"APP_SWEEP_SCHEDULE" env-default:"*/5 * * * *"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"APP_ALLOWED_ORIGINS" env-default:""`
}

type Config struct {
	Listen   Listen         `yaml:"listen"`
	Mongo    MongoConfig    `yaml:"mongo"`
	Smtp     SmtpConfig     `yaml:"smtp"`
	Sms      SmsConfig      `yaml:"sms"`
	Redis    RedisConfig    `yaml:"redis"`
	Telegram TelegramConfig `yaml:"telegram"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Auth     AuthConfig     `yaml:"auth"`
	App      AppConfig      `yaml:"app"`
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
