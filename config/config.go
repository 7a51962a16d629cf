package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port          string `mapstructure:"port"`
		CorsOrigin    string `mapstructure:"cors_origin"`
		SecureCookies bool   `mapstructure:"secure_cookies"`
	} `mapstructure:"server"`
	Database struct {
		Host         string        `mapstructure:"host"`
		Port         int           `mapstructure:"port"`
		User         string        `mapstructure:"user"`
		Password     string        `mapstructure:"password"`
		Name         string        `mapstructure:"name"`
		SSLMode      string        `mapstructure:"sslmode"`
		QueryTimeout time.Duration `mapstructure:"query_timeout"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string        `mapstructure:"host"`
		Port     string        `mapstructure:"port"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"redis"`
	JWT struct {
		AccessTokenSecret  string        `mapstructure:"access_token_secret"`
		AccessTokenExpiry  time.Duration `mapstructure:"access_token_expiry"`
		RefreshTokenSecret string        `mapstructure:"refresh_token_secret"`
		RefreshTokenExpiry time.Duration `mapstructure:"refresh_token_expiry"`
		BcryptCost         int           `mapstructure:"bcrypt_cost"`
	} `mapstructure:"jwt"`
	Storage struct {
		Endpoint       string `mapstructure:"endpoint"`
		Region         string `mapstructure:"region"`
		Bucket         string `mapstructure:"bucket"`
		AccessKey      string `mapstructure:"access_key"`
		SecretKey      string `mapstructure:"secret_key"`
		PublicBaseURL  string `mapstructure:"public_base_url"`
		ForcePathStyle bool   `mapstructure:"force_path_style"`
	} `mapstructure:"storage"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

var AppConfig Config

// LoadConfig reads config.yml from path into AppConfig and stops the process if
// the configuration is unreadable or incomplete.
func LoadConfig(path string) {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	AppConfig = *cfg
}

// Load reads config.yml from path, applies environment overrides
// (e.g. JWT_ACCESS_TOKEN_SECRET) and validates the result.
// A missing config file is not an error as long as the environment supplies the required keys.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the token lifecycle cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.JWT.AccessTokenSecret == "" {
		missing = append(missing, "jwt.access_token_secret")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		missing = append(missing, "jwt.access_token_expiry")
	}
	if c.JWT.RefreshTokenSecret == "" {
		missing = append(missing, "jwt.refresh_token_secret")
	}
	if c.JWT.RefreshTokenExpiry <= 0 {
		missing = append(missing, "jwt.refresh_token_expiry")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.JWT.AccessTokenSecret == c.JWT.RefreshTokenSecret {
		return errors.New("jwt.access_token_secret and jwt.refresh_token_secret must differ")
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.secure_cookies", true)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "videotube")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.query_timeout", 5*time.Second)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", 10*time.Minute)

	v.SetDefault("jwt.access_token_secret", "")
	v.SetDefault("jwt.access_token_expiry", 0)
	v.SetDefault("jwt.refresh_token_secret", "")
	v.SetDefault("jwt.refresh_token_expiry", 0)
	v.SetDefault("jwt.bcrypt_cost", 10)

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "videotube")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.force_path_style", true)

	v.SetDefault("log.level", "info")
}
