package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Shopify        Shopify        `mapstructure:",squash"`
	WooCommerce    WooCommerce    `mapstructure:",squash"`
	WooSync        WooSync        `mapstructure:",squash"`
	ShopifySync    ShopifySync    `mapstructure:",squash"`
	SegmentRefresh SegmentRefresh `mapstructure:",squash"`
	Forecast       Forecast       `mapstructure:",squash"`
	SecretKey      string         `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Shopify struct {
	APIKey            string `mapstructure:"shopify_api_key"`
	APISecret         string `mapstructure:"shopify_api_secret"`
	RedirectURI       string `mapstructure:"shopify_redirect_uri"`
	Scopes            string `mapstructure:"shopify_scopes"`
	APIVersion        string `mapstructure:"shopify_api_version"`
	RequestsPerSecond int    `mapstructure:"shopify_requests_per_second"`
	TimeoutSeconds    int    `mapstructure:"shopify_timeout_seconds"`
}

type WooCommerce struct {
	APIVersion        string `mapstructure:"woocommerce_api_version"`
	CallsPerMinute    int    `mapstructure:"woocommerce_calls_per_minute"`
	TimeoutSeconds    int    `mapstructure:"woocommerce_timeout_seconds"`
	VerifyTLS         bool   `mapstructure:"woocommerce_verify_tls"`
	DefaultPageSize   int    `mapstructure:"woocommerce_default_page_size"`
}

type WooSync struct {
	CronSchedule        string `mapstructure:"woo_sync_cron"`
	RequestDelaySeconds int    `mapstructure:"woo_sync_request_delay_seconds"`
	MaxConcurrentJobs   int    `mapstructure:"woo_sync_max_concurrent_jobs"`
	Enabled             bool   `mapstructure:"woo_sync_enabled"`
}

type ShopifySync struct {
	CronSchedule        string `mapstructure:"shopify_sync_cron"`
	RequestDelaySeconds int    `mapstructure:"shopify_sync_request_delay_seconds"`
	MaxConcurrentJobs   int    `mapstructure:"shopify_sync_max_concurrent_jobs"`
	Enabled             bool   `mapstructure:"shopify_sync_enabled"`
}

type SegmentRefresh struct {
	CronSchedule string `mapstructure:"segment_refresh_cron"`
	Enabled      bool   `mapstructure:"segment_refresh_enabled"`
}

type Forecast struct {
	LookbackDays   int `mapstructure:"forecast_lookback_days"`
	DefaultPeriods int `mapstructure:"forecast_default_periods"`
	MaxPeriods     int `mapstructure:"forecast_max_periods"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/nexus")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("SHOPIFY_API_KEY", "your_api_key")
	viper.SetDefault("SHOPIFY_API_SECRET", "your_api_secret")
	viper.SetDefault("SHOPIFY_REDIRECT_URI", "http://localhost:8000/v2/connectors/shopify/callback")
	viper.SetDefault("SHOPIFY_SCOPES", "read_orders,read_customers,read_products,read_analytics")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-01")
	viper.SetDefault("SHOPIFY_REQUESTS_PER_SECOND", 2) // Shopify Admin API leaky bucket
	viper.SetDefault("SHOPIFY_TIMEOUT_SECONDS", 30)

	viper.SetDefault("WOOCOMMERCE_API_VERSION", "wc/v3")
	viper.SetDefault("WOOCOMMERCE_CALLS_PER_MINUTE", 60)
	viper.SetDefault("WOOCOMMERCE_TIMEOUT_SECONDS", 30)
	viper.SetDefault("WOOCOMMERCE_VERIFY_TLS", true)
	viper.SetDefault("WOOCOMMERCE_DEFAULT_PAGE_SIZE", 100)

	// Platform sync defaults
	viper.SetDefault("WOO_SYNC_CRON", "0 3 * * *")
	viper.SetDefault("WOO_SYNC_REQUEST_DELAY_SECONDS", 2)
	viper.SetDefault("WOO_SYNC_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("WOO_SYNC_ENABLED", false)

	viper.SetDefault("SHOPIFY_SYNC_CRON", "0 4 * * *")
	viper.SetDefault("SHOPIFY_SYNC_REQUEST_DELAY_SECONDS", 2)
	viper.SetDefault("SHOPIFY_SYNC_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("SHOPIFY_SYNC_ENABLED", false)

	// Segments are recomputed after the platform syncs finish
	viper.SetDefault("SEGMENT_REFRESH_CRON", "0 5 * * *")
	viper.SetDefault("SEGMENT_REFRESH_ENABLED", false)

	viper.SetDefault("FORECAST_LOOKBACK_DAYS", 730)
	viper.SetDefault("FORECAST_DEFAULT_PERIODS", 30)
	viper.SetDefault("FORECAST_MAX_PERIODS", 365)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("using variables loaded by godotenv (viper could not read .env):", err)
	} else {
		logrus.Info(".env file read by viper")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// loadEnvFile loads the .env file via godotenv, trying a few known locations
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("could not resolve current directory:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info(".env loaded from:", location)
			return
		}
	}

	logrus.Warn("no .env file found in any known location")
}
