package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type Telegram struct {
	Token       string `mapstructure:"token"`
	WebhookURL  string `mapstructure:"webhook_url"`
	WebhookPath string `mapstructure:"webhook_path"`
}

// Source configures access to the published exchange rate page.
type Source struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
}

type Cache struct {
	TTLMinutes int   `mapstructure:"ttl_minutes"`
	DedupSize  int64 `mapstructure:"dedup_size"`
}

type Rates struct {
	Policy         string `mapstructure:"policy"`
	SupportedCodes string `mapstructure:"supported_codes"`
	CurrencyNames  string `mapstructure:"currency_names"`
}

// Supported returns the configured currency codes ("USD,EUR,JPY").
func (r Rates) Supported() []string { return ParseList(r.SupportedCodes) }

// Names returns the code to display name map ("USD:美元,EUR:欧元").
func (r Rates) Names() map[string]string { return ParseDict(r.CurrencyNames) }

type Logging struct {
	Level          string `mapstructure:"level"`
	RedactUserData bool   `mapstructure:"redact_user_data"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	Telegram   Telegram   `mapstructure:"telegram"`
	Source     Source     `mapstructure:"source"`
	Cache      Cache      `mapstructure:"cache"`
	Rates      Rates      `mapstructure:"rates"`
	Logging    Logging    `mapstructure:"logging"`
}

func Init() (*AppConfig, error) {
	var cfg AppConfig

	// .env is optional; deployments usually inject real environment variables.
	_ = godotenv.Load()

	viper.SetConfigFile("config.yaml")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	viper.SetDefault("http_server.port", "8080")
	viper.SetDefault("telegram.webhook_path", "/webhook")
	viper.SetDefault("source.url", "https://www.boc.cn/sourcedb/whpj/enindex_1619.html")
	viper.SetDefault("source.timeout_seconds", 10)
	viper.SetDefault("source.max_retries", 2)
	viper.SetDefault("cache.ttl_minutes", 10)
	viper.SetDefault("cache.dedup_size", 4096)
	viper.SetDefault("rates.policy", "middle")
	viper.SetDefault("rates.supported_codes", "USD,EUR,GBP,JPY,HKD,AUD,CAD,SGD,CHF,CNY")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.redact_user_data", true)

	// http server env vars
	_ = viper.BindEnv("http_server.port", "PORT")

	// telegram env vars
	_ = viper.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")
	_ = viper.BindEnv("telegram.webhook_url", "WEBHOOK_URL")
	_ = viper.BindEnv("telegram.webhook_path", "WEBHOOK_PATH")

	// source page env vars
	_ = viper.BindEnv("source.url", "BOC_URL")
	_ = viper.BindEnv("source.timeout_seconds", "BOC_TIMEOUT_SECONDS")
	_ = viper.BindEnv("source.max_retries", "BOC_MAX_RETRIES")

	// cache env vars
	_ = viper.BindEnv("cache.ttl_minutes", "CACHE_TTL_MINUTES")
	_ = viper.BindEnv("cache.dedup_size", "UPDATE_DEDUP_SIZE")

	// currency env vars
	_ = viper.BindEnv("rates.policy", "RATE_POLICY")
	_ = viper.BindEnv("rates.supported_codes", "SUPPORTED_CURRENCIES")
	_ = viper.BindEnv("rates.currency_names", "CURRENCY_NAMES")

	// logging env vars
	_ = viper.BindEnv("logging.level", "LOG_LEVEL")
	_ = viper.BindEnv("logging.redact_user_data", "REDACT_USER_DATA")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// ParseList splits a comma separated value, dropping empty items.
func ParseList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseDict splits a comma separated string of key:value pairs.
func ParseDict(value string) map[string]string {
	result := make(map[string]string)
	for _, item := range strings.Split(value, ",") {
		if k, v, ok := strings.Cut(item, ":"); ok {
			k = strings.TrimSpace(k)
			v = strings.TrimSpace(v)
			if k != "" && v != "" {
				result[k] = v
			}
		}
	}
	return result
}
