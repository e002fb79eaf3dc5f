package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-jwt-secret"

type UploadConfig struct {
	Driver     string `mapstructure:"driver"`
	Dir        string `mapstructure:"dir"`
	StaticBase string `mapstructure:"static_base"`
	MaxSize    int64  `mapstructure:"max_size"`
}

type MinioConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	PublicBase      string `mapstructure:"public_base"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

type CleanupConfig struct {
	NotificationRetention time.Duration `mapstructure:"notification_retention"`
	Interval              time.Duration `mapstructure:"interval"`
}

type Config struct {
	AppEnv             string        `mapstructure:"app_env"`
	HTTPAddr           string        `mapstructure:"http_addr"`
	DatabaseURL        string        `mapstructure:"database_url"`
	JWTSecret          string        `mapstructure:"jwt_secret"`
	JWTTTL             time.Duration `mapstructure:"jwt_ttl"`
	CORSAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
	Upload             UploadConfig  `mapstructure:"upload"`
	Minio              MinioConfig   `mapstructure:"minio"`
	Redis              RedisConfig   `mapstructure:"redis"`
	Cleanup            CleanupConfig `mapstructure:"cleanup"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "dev")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("database_url", "worktide.db")
	v.SetDefault("jwt_secret", defaultJWTSecret)
	v.SetDefault("jwt_ttl", "24h")
	v.SetDefault("cors_allowed_origins", []string{})
	v.SetDefault("upload.driver", "local")
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.static_base", "/static/uploads")
	v.SetDefault("upload.max_size", 20*1024*1024)
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key_id", "")
	v.SetDefault("minio.secret_access_key", "")
	v.SetDefault("minio.bucket", "worktide-attachments")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.public_base", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "worktide:push")
	v.SetDefault("cleanup.notification_retention", "2160h")
	v.SetDefault("cleanup.interval", "24h")
}

// Load reads defaults, an optional YAML file named by WORKTIDE_CONFIG and
// environment overrides (upload.dir -> UPLOAD_DIR).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv("WORKTIDE_CONFIG")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		log.Printf("config loaded from %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Env values arrive as one comma separated string.
	cfg.CORSAllowedOrigins = splitList(strings.Join(cfg.CORSAllowedOrigins, ","))

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.Upload.MaxSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE must be > 0")
	}
	switch cfg.Upload.Driver {
	case "local":
		if cfg.Upload.Dir == "" {
			return fmt.Errorf("UPLOAD_DIR must not be empty")
		}
	case "minio":
		if cfg.Minio.Endpoint == "" || cfg.Minio.Bucket == "" {
			return fmt.Errorf("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio upload driver")
		}
	default:
		return fmt.Errorf("UPLOAD_DRIVER must be one of: local, minio")
	}
	if cfg.Cleanup.NotificationRetention <= 0 {
		return fmt.Errorf("CLEANUP_NOTIFICATION_RETENTION must be > 0")
	}
	if cfg.Cleanup.Interval <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL must be > 0")
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
