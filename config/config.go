package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPhotosSubDir     = "photos"
	DefaultThumbnailsSubDir = "photo_thumbnails"
)

const (
	defaultPhotoQueueSize  = 200
	defaultNumPhotoWorkers = 2
	defaultPhotoThumbSize  = 480
	defaultTokenTTL        = 24 * time.Hour
	defaultDemoJWTSecret   = "congo-address-mapper-demo-secret"
)

// ErrInsecureJWTSecret is returned when demo mode is off and auth.jwt_secret
// is unset or still the built-in default.
var ErrInsecureJWTSecret = errors.New("auth.jwt_secret must be set to a private value when demo mode is off")

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Media    MediaConfig    `mapstructure:"media"`
	Workers  WorkerConfig   `mapstructure:"workers"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	// sqlite or postgres
	Driver string `mapstructure:"driver"`
	// file path for sqlite, URL/DSN for postgres; empty means the store is not configured
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log_level"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	// demo mode treats every request as the fixed demo administrator
	DemoMode     bool   `mapstructure:"demo_mode"`
	DemoPassword string `mapstructure:"demo_password"`
}

type MediaConfig struct {
	StoragePath    string `mapstructure:"storage_path"` // primary root for uploaded photos and thumbnails
	PhotosPath     string `mapstructure:"-"`            // full-calculated path for photos
	ThumbnailsPath string `mapstructure:"-"`            // full-calculated path for thumbnails
	ThumbnailSize  int    `mapstructure:"thumbnail_size"`
	MaxUploadMB    int64  `mapstructure:"max_upload_mb"`
}

type WorkerConfig struct {
	QueueSize int `mapstructure:"queue_size"`
	Count     int `mapstructure:"count"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "congo_addresses.db")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("auth.jwt_secret", defaultDemoJWTSecret)
	v.SetDefault("auth.token_ttl", defaultTokenTTL)
	v.SetDefault("auth.demo_mode", true)
	v.SetDefault("auth.demo_password", "Demo2024!")

	v.SetDefault("media.storage_path", filepath.Join(".", "media_storage"))
	v.SetDefault("media.thumbnail_size", defaultPhotoThumbSize)
	v.SetDefault("media.max_upload_mb", 20)

	v.SetDefault("workers.queue_size", defaultPhotoQueueSize)
	v.SetDefault("workers.count", defaultNumPhotoWorkers)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig reads defaults, then an optional YAML file, then CAM_* environment variables.
// DATABASE_URL and PORT are honoured as aliases for database.dsn and server.port.
func LoadConfig(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.dsn", "CAM_DATABASE_DSN", "DATABASE_URL")
	_ = v.BindEnv("server.port", "CAM_SERVER_PORT", "PORT")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) resolve() error {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	// a postgres URL implies the postgres driver
	if strings.HasPrefix(c.Database.DSN, "postgres://") || strings.HasPrefix(c.Database.DSN, "postgresql://") {
		c.Database.Driver = "postgres"
	}
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	absMediaStorage, err := filepath.Abs(c.Media.StoragePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for media storage '%s': %w", c.Media.StoragePath, err)
	}
	c.Media.StoragePath = absMediaStorage
	c.Media.PhotosPath = filepath.Join(absMediaStorage, DefaultPhotosSubDir)
	c.Media.ThumbnailsPath = filepath.Join(absMediaStorage, DefaultThumbnailsSubDir)

	if c.Workers.Count <= 0 {
		c.Workers.Count = defaultNumPhotoWorkers
	}
	if c.Workers.QueueSize <= 0 {
		c.Workers.QueueSize = defaultPhotoQueueSize
	}
	if c.Media.ThumbnailSize <= 0 {
		c.Media.ThumbnailSize = defaultPhotoThumbSize
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}
	// the default secret is public; tokens signed with it are only acceptable in demo mode
	secret := strings.TrimSpace(c.Auth.JWTSecret)
	if !c.Auth.DemoMode && (secret == "" || secret == defaultDemoJWTSecret) {
		return ErrInsecureJWTSecret
	}
	return nil
}

// MaxUploadBytes is the request body limit for photo uploads.
func (c Config) MaxUploadBytes() int64 {
	if c.Media.MaxUploadMB <= 0 {
		return 20 << 20
	}
	return c.Media.MaxUploadMB << 20
}
