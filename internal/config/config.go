// Package config loads proxy configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type InvalidationCfg struct {
	Enabled bool
	Brokers string
	Topic   string
	GroupID string
}

type Config struct {
	Addr     string
	LogLevel string

	// Upstream CDSS REST API.
	BaseURL   string
	APIKey    string
	PageLimit int

	// Response cache. Driver is "redis" or "memory".
	CacheDriver    string
	RedisAddr      string
	MemCacheSize   int
	CacheOpTimeout time.Duration
	CacheTTL       time.Duration
	CacheTTLOvr    map[string]time.Duration

	// H3 resolution used to bucket spatial queries into cache cells.
	CellRes int

	MetricsEnabled bool
	MetricsAddr    string

	Invalidation InvalidationCfg
}

func FromEnv() Config {
	res := getint("CELL_RES", 5)
	if res < 0 {
		res = 0
	}
	if res > 15 {
		res = 15
	}

	return Config{
		Addr:           getenv("ADDR", ":8090"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		BaseURL:        getenv("CDSS_BASE_URL", ""),
		APIKey:         getenv("CDSS_API_KEY", ""),
		PageLimit:      getint("CDSS_PAGE_LIMIT", 0),
		CacheDriver:    getenv("CACHE_DRIVER", "memory"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		MemCacheSize:   getint("MEM_CACHE_SIZE", 1024),
		CacheOpTimeout: getduration("CACHE_OP_TIMEOUT", 250*time.Millisecond),
		CacheTTL:       getduration("CACHE_TTL_DEFAULT", 15*time.Minute),
		CacheTTLOvr:    parseDurationMap(getenv("CACHE_TTL_OVERRIDES", "")),
		CellRes:        res,
		MetricsEnabled: getbool("METRICS_ENABLED", false),
		MetricsAddr:    getenv("METRICS_ADDR", ":9090"),
		Invalidation: InvalidationCfg{
			Enabled: getbool("INVALIDATION_ENABLED", false),
			Brokers: getenv("KAFKA_BROKERS", "localhost:9092"),
			Topic:   getenv("KAFKA_TOPIC", "cdss-invalidation"),
			GroupID: getenv("KAFKA_GROUP_ID", "cdss-proxy"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// parse "telemetrystations=5m,referencetables=24h" into map
func parseDurationMap(s string) map[string]time.Duration {
	out := map[string]time.Duration{}
	s = strings.TrimSpace(s)
	if s == "" {
		return out
	}
	for p := range strings.SplitSeq(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		k := strings.TrimSpace(kv[0])
		v := strings.TrimSpace(kv[1])
		if k == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil {
			out[k] = d
		}
	}
	return out
}
