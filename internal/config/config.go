package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	ReplyProviderLlama  = "llama"
	ReplyProviderGemini = "gemini"
)

// Config is read once at startup and passed down explicitly.
type Config struct {
	Port    string
	GinMode string
	Store   string

	Database  Database
	JWTSecret string

	Perspective Perspective
	Reply       Reply

	ModerationTimeout time.Duration
	AutoReplyTimeout  time.Duration

	LogLevel  string
	LogFormat string
}

type Database struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Perspective struct {
	APIKey   string
	Endpoint string
}

type Reply struct {
	Provider string

	LlamaAPIKey  string
	LlamaBaseURL string
	LlamaModel   string

	GeminiAPIKey string
	GeminiModel  string
}

// Load reads the configuration from the environment (and .env, if present).
func Load() (*Config, error) {
	cfg := &Config{
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),
		Store:   strings.ToLower(getenv("STORE", StorePostgres)),
		Database: Database{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     os.Getenv("DB_HOST"),
			Port:     getenv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		Perspective: Perspective{
			APIKey:   os.Getenv("PERSPECTIVE_API_KEY"),
			Endpoint: getenv("PERSPECTIVE_ENDPOINT", "https://commentanalyzer.googleapis.com"),
		},
		Reply: Reply{
			Provider:     strings.ToLower(getenv("REPLY_PROVIDER", ReplyProviderLlama)),
			LlamaAPIKey:  os.Getenv("LLAMA_API_KEY"),
			LlamaBaseURL: getenv("LLAMA_BASE_URL", "https://api.llama-api.com"),
			LlamaModel:   getenv("LLAMA_MODEL", "llama3.1-70b"),
			GeminiAPIKey: os.Getenv("GOOGLE_API_KEY"),
			GeminiModel:  getenv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.ModerationTimeout, err = durationEnv("MODERATION_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.AutoReplyTimeout, err = durationEnv("AUTO_REPLY_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	switch c.Store {
	case StorePostgres:
		if c.Database.URL == "" && (c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "") {
			return errors.New("DATABASE_URL or DB_HOST, DB_USER and DB_NAME must be set")
		}
	case StoreMemory:
	default:
		return errors.Errorf("unknown STORE %q", c.Store)
	}

	switch c.Reply.Provider {
	case ReplyProviderLlama, ReplyProviderGemini:
	default:
		return errors.Errorf("unknown REPLY_PROVIDER %q", c.Reply.Provider)
	}

	return nil
}

// DSN returns a postgres connection URL.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationEnv accepts Go durations ("90s") or a bare number of seconds.
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", key)
	}
	return d, nil
}
