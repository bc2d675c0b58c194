package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CacheBackend selects the session cache implementation.
type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendRedis  CacheBackend = "redis"
)

// Config holds all configuration for the storefront server.
type Config struct {
	HTTPAddr    string `mapstructure:"http_addr"`
	LogLevel    string `mapstructure:"log_level"`
	LogPretty   bool   `mapstructure:"log_pretty"`
	MongoURI    string `mapstructure:"mongo_uri"`
	MongoDBName string `mapstructure:"mongo_db_name"`

	CacheBackend     CacheBackend  `mapstructure:"cache_backend"`
	RedisAddr        string        `mapstructure:"redis_addr"`
	RedisPassword    string        `mapstructure:"redis_password"`
	CacheKeyPrefix   string        `mapstructure:"cache_key_prefix"`
	SessionCacheTTL  time.Duration `mapstructure:"session_cache_ttl"`
	BootstrapTimeout time.Duration `mapstructure:"bootstrap_timeout"`

	// Federated sign-in settings; empty client id disables the flow.
	FederationClientID     string   `mapstructure:"federation_client_id"`
	FederationClientSecret string   `mapstructure:"federation_client_secret"`
	FederationRedirectURL  string   `mapstructure:"federation_redirect_url"`
	FederationAuthURL      string   `mapstructure:"federation_auth_url"`
	FederationTokenURL     string   `mapstructure:"federation_token_url"`
	FederationUserInfoURL  string   `mapstructure:"federation_userinfo_url"`
	FederationScopes       []string `mapstructure:"federation_scopes"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetConfigName("storefront_config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/storefront/")
	viper.AddConfigPath("$HOME/.storefront")

	// Environment variable binding: STOREFRONT_HTTP_ADDR etc.
	viper.SetEnvPrefix("STOREFRONT")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("http_addr", "0.0.0.0:8080")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_pretty", false)
	viper.SetDefault("mongo_uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo_db_name", "storefront")
	viper.SetDefault("cache_backend", string(CacheBackendMemory))
	viper.SetDefault("redis_addr", "localhost:6379")
	viper.SetDefault("cache_key_prefix", "storefront")
	viper.SetDefault("session_cache_ttl", "720h") // 30 days
	viper.SetDefault("bootstrap_timeout", "10s")
	viper.SetDefault("federation_auth_url", "https://accounts.google.com/o/oauth2/auth")
	viper.SetDefault("federation_token_url", "https://oauth2.googleapis.com/token")
	viper.SetDefault("federation_userinfo_url", "https://openidconnect.googleapis.com/v1/userinfo")
	viper.SetDefault("federation_scopes", []string{"openid", "profile", "email"})

	if errRead := viper.ReadInConfig(); errRead != nil {
		if _, ok := errRead.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, errRead
		}
		// Config file not found; proceed with defaults and env vars.
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	config.CacheBackend = CacheBackend(viper.GetString("cache_backend"))
	return
}
