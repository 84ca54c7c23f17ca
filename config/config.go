package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// Site is the configuration of the public site.
type Site struct {
	Addr            string        `env:"UNLEAK_ADDR" envDefault:":8080"`
	PublicOrigin    string        `env:"UNLEAK_PUBLIC_ORIGIN"`
	WaitlistAPI     string        `env:"UNLEAK_WAITLIST_API" envDefault:"https://unleaktrade-waitlist-028080d4039f.herokuapp.com"`
	UpstreamTimeout time.Duration `env:"UNLEAK_UPSTREAM_TIMEOUT" envDefault:"15s"`
	Brand           string        `env:"UNLEAK_BRAND" envDefault:"UnleakTrade"`
	StoreBackend    string        `env:"UNLEAK_STORE" envDefault:"cookie"`
	StorePath       string        `env:"UNLEAK_STORE_PATH" envDefault:"visitors.db"`
	CookieSecret    string        `env:"UNLEAK_COOKIE_SECRET"`
	SecureCookies   bool          `env:"UNLEAK_SECURE_COOKIES" envDefault:"false"`
	SubmitRate      float64       `env:"UNLEAK_SUBMIT_RATE" envDefault:"0.5"`
	SubmitBurst     int           `env:"UNLEAK_SUBMIT_BURST" envDefault:"5"`
	LogLevel        string        `env:"UNLEAK_LOG_LEVEL" envDefault:"info"`
	OTelEndpoint    string        `env:"UNLEAK_OTEL_ENDPOINT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load seeds the environment from the given dotenv files, when present, and
// parses Site from it. Variables already set win over file values.
func Load(files ...string) (Site, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Site{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Site
	if err := ParseEnv(&cfg); err != nil {
		return Site{}, err
	}
	if err := cfg.validate(); err != nil {
		return Site{}, err
	}
	return cfg, nil
}

func (s Site) validate() error {
	switch s.StoreBackend {
	case "cookie", "bolt":
	default:
		return fmt.Errorf("UNLEAK_STORE must be cookie or bolt, got %q", s.StoreBackend)
	}
	if s.UpstreamTimeout <= 0 {
		return fmt.Errorf("UNLEAK_UPSTREAM_TIMEOUT must be positive")
	}
	if strings.TrimSpace(s.Brand) == "" {
		return fmt.Errorf("UNLEAK_BRAND must not be empty")
	}
	return nil
}

// Secret returns the cookie signing secret. Without a configured one a
// random secret is generated, so visitor cookies do not survive a restart.
func (s Site) Secret() ([]byte, bool, error) {
	if s.CookieSecret != "" {
		return []byte(s.CookieSecret), false, nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, false, fmt.Errorf("generate cookie secret: %w", err)
	}
	return secret, true, nil
}

// ParseLevel maps a level name to the echo logger's level. Unknown names
// mean INFO.
func ParseLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
