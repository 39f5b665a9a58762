package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything yearscope reads from the environment.
type Config struct {
	// App
	Env      string `split_words:"true" default:"prod" validate:"oneof=dev staging prod"`
	LogLevel string `split_words:"true" default:"info" validate:"oneof=debug info warn error"`

	// Database
	DatabasePath string `split_words:"true" default:"./yearscope.db"`

	// GitHub
	GithubToken string `split_words:"true"`

	// Performance tuning
	GithubRateLimit   int           `split_words:"true" default:"80" validate:"gt=0"`
	MirrorSize        int           `split_words:"true" default:"16" validate:"gt=0"`
	CommitRepoLimit   int           `split_words:"true" default:"10" validate:"gt=0"`
	HTTPClientTimeout time.Duration `split_words:"true" default:"30s" validate:"gt=0"`
}

type Loader struct {
	Prefix   string
	Validate *validator.Validate
}

func NewLoader(prefix string) *Loader {
	return &Loader{Prefix: prefix, Validate: validator.New()}
}

// Load reads .env files, the process environment and validates the result.
func (l *Loader) Load() (Config, error) {
	var cfg Config

	loadDotEnv()

	if err := envconfig.Process(l.Prefix, &cfg); err != nil {
		return cfg, fmt.Errorf("env load: %w", err)
	}

	if err := l.Validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	files := []string{".env"}
	if appEnv := strings.TrimSpace(os.Getenv("APP_ENV")); appEnv != "" {
		files = append(files, ".env."+appEnv)
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Overload(f)
		}
	}
}
