package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Telegram  Telegram  `mapstructure:"telegram"`
	Trading   Trading   `mapstructure:"trading"`
	Scheduler Scheduler `mapstructure:"scheduler"`
	Logger    Logger    `mapstructure:"logger"`
	Server    Server    `mapstructure:"server"`
	Database  Database  `mapstructure:"database"`
}

// Telegram holds the configuration for the Telegram Bot API.
type Telegram struct {
	BotToken       string  `mapstructure:"bot_token"`
	ChatID         string  `mapstructure:"chat_id"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// Server holds the configuration for the webhook server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// PairConfig describes one tradeable symbol: how it is displayed and the
// fixed stop-loss distance used to normalize profit into risk units.
type PairConfig struct {
	Symbol       string  `mapstructure:"symbol"`
	Kind         string  `mapstructure:"kind"` // "stock" or "forex"
	StopDistance float64 `mapstructure:"stop_distance"`
}

// Trading holds the configuration for the signal-processing logic.
type Trading struct {
	RiskPerTrade float64      `mapstructure:"risk_per_trade"`
	Pairs        []PairConfig `mapstructure:"pairs"`
}

// Scheduler holds the configuration for the periodic report loop.
type Scheduler struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds"`
	DailySummaryHour    int `mapstructure:"daily_summary_hour"`
	ReportHour          int `mapstructure:"report_hour"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 5001)
	viper.SetDefault("database.dsn", "signals.db")
	viper.SetDefault("telegram.rate_limit", 1) // messages per second
	viper.SetDefault("telegram.rate_limit_burst", 5)
	viper.SetDefault("telegram.timeout_seconds", 10)
	viper.SetDefault("trading.risk_per_trade", 50)
	viper.SetDefault("scheduler.poll_interval_seconds", 600)
	viper.SetDefault("scheduler.daily_summary_hour", 21)
	viper.SetDefault("scheduler.report_hour", 22)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
