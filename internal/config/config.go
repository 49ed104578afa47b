package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"` // sqlite / postgres
	Path    string `mapstructure:"path"`   // sqlite file
	DSN     string `mapstructure:"dsn"`    // postgres connection string
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost    int    `mapstructure:"bcrypt_cost"`
	EncryptionKey string `mapstructure:"encryption_key"`
	EmailHashSalt string `mapstructure:"email_hash_salt"`
	// per-IP injection-pattern hits tolerated per hour before 429
	ThreatThreshold int `mapstructure:"threat_threshold"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type OCRConfig struct {
	Model         string `mapstructure:"model"`
	MaxImageBytes int64  `mapstructure:"max_image_bytes"`
	DailyScans    int    `mapstructure:"daily_scans"`
}

type AppSubConfig struct {
	PageSize     int    `mapstructure:"page_size"`
	BaseCurrency string `mapstructure:"base_currency"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Log      LogConfig      `mapstructure:"log"`
	OCR      OCRConfig      `mapstructure:"ocr"`
	App      AppSubConfig   `mapstructure:"app"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. PF_SERVER_PORT=9000
		v.SetEnvPrefix("PF")
		v.AutomaticEnv()

		v.SetDefault("server.address", "0.0.0.0")
		v.SetDefault("server.port", 8080)
		v.SetDefault("database.driver", "sqlite")
		v.SetDefault("database.path", "data/portfolio.db")
		v.SetDefault("jwt.expire_hours", 24)
		v.SetDefault("security.bcrypt_cost", 12)
		v.SetDefault("security.threat_threshold", 10)
		v.SetDefault("ocr.model", "gemini-2.0-flash")
		v.SetDefault("ocr.max_image_bytes", 5<<20)
		v.SetDefault("ocr.daily_scans", 20)
		v.SetDefault("app.page_size", 20)
		v.SetDefault("app.base_currency", "USD")

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
