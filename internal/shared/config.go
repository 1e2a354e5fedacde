package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	DataDir     string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	RateRPS     int
	WatchData   bool

	AuditWorkers int
	CheckLinks   bool
	LinkRPS      int
}

func Load() Config {
	// .env is a dev convenience; missing is the normal case elsewhere
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	truthy := func(k string, def bool) bool {
		if v := os.Getenv(k); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		DataDir:     env("DATA_DIR", "data"),
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		RateRPS:     atoi("RATE_RPS", 0),
		WatchData:   truthy("WATCH_DATA", true),

		AuditWorkers: atoi("AUDIT_WORKERS", 8),
		CheckLinks:   truthy("AUDIT_CHECK_LINKS", false),
		LinkRPS:      atoi("AUDIT_LINK_RPS", 5),
	}
	if c.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR is empty, response cache disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
