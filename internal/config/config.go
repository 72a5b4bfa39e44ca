package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Quote       QuoteConfig     `mapstructure:"quote"`
	Weather     WeatherConfig   `mapstructure:"weather"`
	Line        LineConfig      `mapstructure:"line"`
	Directory   DirectoryConfig `mapstructure:"directory"`
	Schedule    ScheduleConfig  `mapstructure:"schedule"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Port         int    `mapstructure:"port" validate:"min=1,max=65535"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type QuoteConfig struct {
	Symbol         string  `mapstructure:"symbol" validate:"required"`
	DataID         string  `mapstructure:"data_id" validate:"required"`
	StartDate      string  `mapstructure:"start_date"`
	TargetPrice    float64 `mapstructure:"target_price"`
	YahooBaseURL   string  `mapstructure:"yahoo_base_url" validate:"required,url"`
	FinMindBaseURL string  `mapstructure:"finmind_base_url" validate:"required,url"`
	Timeout        int     `mapstructure:"timeout" validate:"min=1"`
}

type WeatherConfig struct {
	APIKey    string           `mapstructure:"api_key"`
	BaseURL   string           `mapstructure:"base_url" validate:"required,url"`
	Timeout   int              `mapstructure:"timeout" validate:"min=1"`
	Endpoints []EndpointConfig `mapstructure:"endpoints"`
	Groups    []GroupConfig    `mapstructure:"groups"`
}

// EndpointConfig names one upstream dataset and the areas to pull from it.
type EndpointConfig struct {
	Dataset string   `mapstructure:"dataset"`
	Areas   []string `mapstructure:"areas"`
}

// GroupConfig defines one message section: membership and display order.
type GroupConfig struct {
	Title string   `mapstructure:"title"`
	Areas []string `mapstructure:"areas"`
}

type LineConfig struct {
	ChannelToken string `mapstructure:"channel_token"`
	PushURL      string `mapstructure:"push_url" validate:"required,url"`
	BatchSize    int    `mapstructure:"batch_size" validate:"min=1,max=500"`
	Timeout      int    `mapstructure:"timeout" validate:"min=1"`
	// UserID is the single-recipient fallback used when no directory
	// is configured.
	UserID string `mapstructure:"user_id"`
}

type DirectoryConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	AccountID   string `mapstructure:"account_id"`
	NamespaceID string `mapstructure:"namespace_id"`
	APIToken    string `mapstructure:"api_token"`
	Timeout     int    `mapstructure:"timeout" validate:"min=1"`
}

type ScheduleConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Timezone  string `mapstructure:"timezone"`
	WeatherAt string `mapstructure:"weather_at"`
	PriceAt   string `mapstructure:"price_at"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Enabled:      true,
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Quote: QuoteConfig{
			Symbol:         "2330.TW",
			DataID:         "2330",
			TargetPrice:    1500,
			YahooBaseURL:   "https://query1.finance.yahoo.com",
			FinMindBaseURL: "https://api.finmindtrade.com",
			Timeout:        10,
		},
		Weather: WeatherConfig{
			BaseURL: "https://opendata.cwa.gov.tw/api/v1/rest/datastore",
			Timeout: 15,
			Endpoints: []EndpointConfig{
				{Dataset: "F-D0047-061", Areas: []string{"松山", "信義", "大安", "中山"}},
				{Dataset: "F-D0047-069", Areas: []string{"板橋", "新店", "三重"}},
			},
			Groups: []GroupConfig{
				{Title: "台北市", Areas: []string{"松山", "信義", "大安", "中山"}},
				{Title: "新北市", Areas: []string{"板橋", "新店", "三重"}},
			},
		},
		Line: LineConfig{
			PushURL:   "https://api.line.me/v2/bot/message/push",
			BatchSize: 500,
			Timeout:   10,
		},
		Directory: DirectoryConfig{
			BaseURL: "https://api.cloudflare.com/client/v4",
			Timeout: 10,
		},
		Schedule: ScheduleConfig{
			Enabled:   true,
			Timezone:  "Asia/Taipei",
			WeatherAt: "07:00",
			PriceAt:   "14:00",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
