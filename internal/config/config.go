package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

type Config struct {
	Port          string
	DatabaseURL   string // пусто - задачи и пользователи хранятся в памяти
	JWTSecret     string
	JWTExpire     time.Duration
	BcryptCost    int
	AuthRateLimit float64
	AuthRateBurst int
	SeedDemo      bool
	CORSOrigins   []string
}

// Load читает флаги из args; значение каждого флага по умолчанию берется
// из одноименной переменной окружения.
func Load(args []string) (Config, error) {
	var (
		cfg       Config
		expire    string
		cost      string
		rateLimit string
		rateBurst string
		seed      string
		origins   string
	)

	fs := pflag.NewFlagSet("mileapp-api", pflag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", getEnv("PORT", "8080"), "HTTP port")
	fs.StringVar(&cfg.DatabaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL DSN (in-memory storage when empty)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "HMAC secret for access tokens")
	fs.StringVar(&expire, "jwt-expire", getEnv("JWT_EXPIRE", "7d"), "token lifetime, e.g. 7d or 12h")
	fs.StringVar(&cost, "bcrypt-cost", getEnv("BCRYPT_COST", "10"), "bcrypt work factor")
	fs.StringVar(&rateLimit, "auth-rate-limit", getEnv("AUTH_RATE_LIMIT", "5"), "auth requests per second per IP")
	fs.StringVar(&rateBurst, "auth-rate-burst", getEnv("AUTH_RATE_BURST", "10"), "auth request burst per IP")
	fs.StringVar(&seed, "seed-demo", getEnv("SEED_DEMO", "false"), "create demo users and tasks on start")
	fs.StringVar(&origins, "cors-origins", getEnv("CORS_ORIGINS", "*"), "comma-separated allowed origins")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingSecret
	}

	var err error
	if cfg.JWTExpire, err = parseExpiry(expire); err != nil {
		return Config{}, fmt.Errorf("JWT_EXPIRE: %w", err)
	}
	if cfg.BcryptCost, err = strconv.Atoi(cost); err != nil {
		return Config{}, fmt.Errorf("BCRYPT_COST: %w", err)
	}
	if cfg.AuthRateLimit, err = strconv.ParseFloat(rateLimit, 64); err != nil || cfg.AuthRateLimit <= 0 {
		return Config{}, fmt.Errorf("AUTH_RATE_LIMIT: invalid value %q", rateLimit)
	}
	if cfg.AuthRateBurst, err = strconv.Atoi(rateBurst); err != nil || cfg.AuthRateBurst < 1 {
		return Config{}, fmt.Errorf("AUTH_RATE_BURST: invalid value %q", rateBurst)
	}
	if cfg.SeedDemo, err = strconv.ParseBool(seed); err != nil {
		return Config{}, fmt.Errorf("SEED_DEMO: %w", err)
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

// parseExpiry понимает "7d" в дополнение к формату time.ParseDuration.
func parseExpiry(raw string) (time.Duration, error) {
	var d time.Duration
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		var err error
		if d, err = time.ParseDuration(raw); err != nil {
			return 0, err
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", raw)
	}
	return d, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
