package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DevSessionSecret is used when SESSION_SECRET is unset. Never rely on it in production.
const DevSessionSecret = "stonehub-dev-secret-change-me"

// Config stores the application configuration, read from the environment.
type Config struct {
	ServerAddr string `env:"SERVER_ADDR" env-default:":8080"`

	// 数据库配置
	DBDriver   string `env:"DB_DRIVER" env-default:"sqlite"` // sqlite, mysql, postgres
	DBPath     string `env:"DB_PATH" env-default:"sql/stone.db"`
	DBHost     string `env:"DB_HOST" env-default:"127.0.0.1"`
	DBPort     string `env:"DB_PORT"`
	DBUser     string `env:"DB_USER" env-default:"root"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" env-default:"stonehub"`

	// 会话配置
	SessionSecret  string        `env:"SESSION_SECRET"`
	SessionBackend string        `env:"SESSION_BACKEND" env-default:"jwt"` // jwt, redis
	SessionTTL     time.Duration `env:"SESSION_TTL" env-default:"168h"`
	CookieSecure   bool          `env:"COOKIE_SECURE" env-default:"false"`

	// Redis配置
	RedisHost     string `env:"REDIS_HOST" env-default:"127.0.0.1"`
	RedisPort     string `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	// AdminEmail is the only identity allowed to read the feedback log.
	AdminEmail string `env:"ADMIN_EMAIL"`

	PagesDir  string `env:"PAGES_DIR" env-default:"."`
	ImagesDir string `env:"IMAGES_DIR" env-default:"images"`

	// MinIO配置，Endpoint 为空时图片从本地目录读取
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" env-default:"stonehub"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
	MinioRegion    string `env:"MINIO_REGION"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	LogFile  string `env:"LOG_FILE" env-default:"logs/stonehub.log"`

	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() (*Config, error) {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated settings and fills dependent defaults.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionBackend {
	case "jwt", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.DBPort == "" {
		switch c.DBDriver {
		case "mysql":
			c.DBPort = "3306"
		case "postgres":
			c.DBPort = "5432"
		}
	}
	return nil
}

// UsingDevSecret reports whether no session secret was configured.
func (c *Config) UsingDevSecret() bool {
	return c.SessionSecret == ""
}

// Secret returns the configured session secret, or the dev fallback.
func (c *Config) Secret() []byte {
	if c.SessionSecret == "" {
		return []byte(DevSessionSecret)
	}
	return []byte(c.SessionSecret)
}

// RedisAddr returns host:port for the redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
