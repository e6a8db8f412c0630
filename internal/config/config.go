package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	OCR    OCRConfig
	Parser ParserConfig
	Log    LogConfig
	CORS   CORSConfig
	Queue  QueueConfig
	Email  EmailConfig
}

// EmailConfig holds email delivery settings. ReviewAddress receives the
// manual-review alerts; alerts are skipped when it is empty.
type EmailConfig struct {
	Provider      string `mapstructure:"provider"`
	Region        string `mapstructure:"region"`
	FromAddress   string `mapstructure:"from_address"`
	FromName      string `mapstructure:"from_name"`
	ReviewAddress string `mapstructure:"review_address"`
	FrontendURL   string `mapstructure:"frontend_url"`
}

// QueueConfig holds parse queue worker settings.
type QueueConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxRetries   int           `mapstructure:"max_retries"`
	Concurrency  int           `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// OCRConfig holds text extraction engine settings.
type OCRConfig struct {
	// Engine selects the registered extraction engine.
	Engine string `mapstructure:"engine"`
	// Languages is a tesseract language spec such as "deu+eng".
	Languages string `mapstructure:"languages"`
	// RenderDPI is the resolution PDF pages are rasterized at when the
	// text layer is unusable.
	RenderDPI int `mapstructure:"render_dpi"`
	// MaxPages caps how many PDF pages are processed per document;
	// zero means no cap.
	MaxPages int `mapstructure:"max_pages"`
	// PageParallelism bounds concurrent OCR passes within one document.
	PageParallelism int `mapstructure:"page_parallelism"`
	// MinTextLayerChars is the minimum text-layer length per page below
	// which the page is rasterized and OCRed instead.
	MinTextLayerChars int `mapstructure:"min_text_layer_chars"`
}

// ParserConfig holds receipt parsing pipeline settings.
type ParserConfig struct {
	// Timeout bounds text extraction per document. Extraction past the
	// bound yields a failed parse, not an error.
	Timeout time.Duration `mapstructure:"timeout"`
	// ManualThreshold is the confidence below which a parse is flagged
	// for manual entry.
	ManualThreshold float64 `mapstructure:"manual_threshold"`
	// SuccessThreshold is the confidence at which a parse counts as a
	// success even with core fields missing.
	SuccessThreshold float64 `mapstructure:"success_threshold"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpen         int           `mapstructure:"max_open"`
	MaxIdle         int           `mapstructure:"max_idle"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the SPESEN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SPESEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "spesen")
	v.SetDefault("db.password", "spesen_secret")
	v.SetDefault("db.name", "spesen_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")

	// S3 defaults
	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.bucket", "spesen-receipts")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// OCR defaults
	v.SetDefault("ocr.engine", "mupdf")
	v.SetDefault("ocr.languages", "deu+eng")
	v.SetDefault("ocr.render_dpi", 300)
	v.SetDefault("ocr.max_pages", 10)
	v.SetDefault("ocr.page_parallelism", 4)
	v.SetDefault("ocr.min_text_layer_chars", 32)

	// Parser defaults
	v.SetDefault("parser.timeout", "120s")
	v.SetDefault("parser.manual_threshold", 40.0)
	v.SetDefault("parser.success_threshold", 80.0)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.poll_interval", "10s")
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.concurrency", 5)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-central-1")
	v.SetDefault("email.from_address", "noreply@spesen.example.com")
	v.SetDefault("email.from_name", "Spesen")
	v.SetDefault("email.review_address", "")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "SPESEN_SERVER_PORT",
		"server.read_timeout":      "SPESEN_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "SPESEN_SERVER_WRITE_TIMEOUT",
		"server.environment":       "SPESEN_SERVER_ENVIRONMENT",
		"db.host":                  "SPESEN_DB_HOST",
		"db.port":                  "SPESEN_DB_PORT",
		"db.user":                  "SPESEN_DB_USER",
		"db.password":              "SPESEN_DB_PASSWORD",
		"db.name":                  "SPESEN_DB_NAME",
		"db.sslmode":               "SPESEN_DB_SSLMODE",
		"db.max_open":              "SPESEN_DB_MAX_OPEN",
		"db.max_idle":              "SPESEN_DB_MAX_IDLE",
		"db.conn_max_lifetime":     "SPESEN_DB_CONN_MAX_LIFETIME",
		"s3.region":                "SPESEN_S3_REGION",
		"s3.bucket":                "SPESEN_S3_BUCKET",
		"s3.endpoint":              "SPESEN_S3_ENDPOINT",
		"s3.access_key":            "SPESEN_S3_ACCESS_KEY",
		"s3.secret_key":            "SPESEN_S3_SECRET_KEY",
		"s3.max_file_size_mb":      "SPESEN_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":        "SPESEN_S3_PRESIGN_EXPIRY",
		"ocr.engine":               "SPESEN_OCR_ENGINE",
		"ocr.languages":            "SPESEN_OCR_LANGUAGES",
		"ocr.render_dpi":           "SPESEN_OCR_RENDER_DPI",
		"ocr.max_pages":            "SPESEN_OCR_MAX_PAGES",
		"ocr.page_parallelism":     "SPESEN_OCR_PAGE_PARALLELISM",
		"ocr.min_text_layer_chars": "SPESEN_OCR_MIN_TEXT_LAYER_CHARS",
		"parser.timeout":           "SPESEN_PARSER_TIMEOUT",
		"parser.manual_threshold":  "SPESEN_PARSER_MANUAL_THRESHOLD",
		"parser.success_threshold": "SPESEN_PARSER_SUCCESS_THRESHOLD",
		"log.level":                "SPESEN_LOG_LEVEL",
		"log.format":               "SPESEN_LOG_FORMAT",
		"cors.allowed_origins":     "SPESEN_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval":      "SPESEN_QUEUE_POLL_INTERVAL",
		"queue.max_retries":        "SPESEN_QUEUE_MAX_RETRIES",
		"queue.concurrency":        "SPESEN_QUEUE_CONCURRENCY",
		"email.provider":           "SPESEN_EMAIL_PROVIDER",
		"email.region":             "SPESEN_EMAIL_REGION",
		"email.from_address":       "SPESEN_EMAIL_FROM_ADDRESS",
		"email.from_name":          "SPESEN_EMAIL_FROM_NAME",
		"email.review_address":     "SPESEN_EMAIL_REVIEW_ADDRESS",
		"email.frontend_url":       "SPESEN_EMAIL_FRONTEND_URL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SPESEN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SPESEN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:            v.GetString("db.host"),
		Port:            v.GetInt("db.port"),
		User:            v.GetString("db.user"),
		Password:        v.GetString("db.password"),
		Name:            v.GetString("db.name"),
		SSLMode:         v.GetString("db.sslmode"),
		MaxOpen:         v.GetInt("db.max_open"),
		MaxIdle:         v.GetInt("db.max_idle"),
		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.OCR = OCRConfig{
		Engine:            v.GetString("ocr.engine"),
		Languages:         v.GetString("ocr.languages"),
		RenderDPI:         v.GetInt("ocr.render_dpi"),
		MaxPages:          v.GetInt("ocr.max_pages"),
		PageParallelism:   v.GetInt("ocr.page_parallelism"),
		MinTextLayerChars: v.GetInt("ocr.min_text_layer_chars"),
	}
	cfg.Parser = ParserConfig{
		Timeout:          v.GetDuration("parser.timeout"),
		ManualThreshold:  v.GetFloat64("parser.manual_threshold"),
		SuccessThreshold: v.GetFloat64("parser.success_threshold"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Queue = QueueConfig{
		PollInterval: v.GetDuration("queue.poll_interval"),
		MaxRetries:   v.GetInt("queue.max_retries"),
		Concurrency:  v.GetInt("queue.concurrency"),
	}

	cfg.Email = EmailConfig{
		Provider:      v.GetString("email.provider"),
		Region:        v.GetString("email.region"),
		FromAddress:   v.GetString("email.from_address"),
		FromName:      v.GetString("email.from_name"),
		ReviewAddress: v.GetString("email.review_address"),
		FrontendURL:   v.GetString("email.frontend_url"),
	}

	return cfg, nil
}
