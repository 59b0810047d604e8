package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Notify    NotifyConfig
	Geofence  GeofenceConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

// JWTConfig carries token verification settings. Tokens are issued by the
// identity provider, not by this service.
type JWTConfig struct {
	Secret string
	Leeway time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// NotifyConfig holds WhatsApp gateway credentials. An empty GatewayURL
// disables outbound notifications.
type NotifyConfig struct {
	WhatsAppGatewayURL string
	WhatsAppToken      string
	WhatsAppSenderID   string
}

// GeofenceConfig is the shop location used to gate attendance check-ins
type GeofenceConfig struct {
	Lat          float64
	Lng          float64
	RadiusMeters float64
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "dukaanly-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "dukaanly")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Karachi")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_LEEWAY_SECONDS", 30)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("WHATSAPP_GATEWAY_URL", "")
	viper.SetDefault("WHATSAPP_TOKEN", "")
	viper.SetDefault("WHATSAPP_SENDER_ID", "")
	viper.SetDefault("SHOP_LAT", 24.8607)
	viper.SetDefault("SHOP_LNG", 67.0011)
	viper.SetDefault("SHOP_RADIUS_METERS", 150.0)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
			Leeway: time.Duration(viper.GetInt("JWT_LEEWAY_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Notify: NotifyConfig{
			WhatsAppGatewayURL: viper.GetString("WHATSAPP_GATEWAY_URL"),
			WhatsAppToken:      viper.GetString("WHATSAPP_TOKEN"),
			WhatsAppSenderID:   viper.GetString("WHATSAPP_SENDER_ID"),
		},
		Geofence: GeofenceConfig{
			Lat:          viper.GetFloat64("SHOP_LAT"),
			Lng:          viper.GetFloat64("SHOP_LNG"),
			RadiusMeters: viper.GetFloat64("SHOP_RADIUS_METERS"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
