package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIURL = "/api"

// BuildAPIURL is injected at build time:
//
//	go build -ldflags "-X github.com/JuanAndresGH-hub/marketplace/internal/config.BuildAPIURL=https://shop.example/api"
var BuildAPIURL string

var (
	overrideMu  sync.RWMutex
	apiOverride string
)

// SetOverride installs a runtime base URL that wins over the environment.
func SetOverride(url string) {
	overrideMu.Lock()
	apiOverride = strings.TrimSpace(url)
	overrideMu.Unlock()
}

func override() string {
	overrideMu.RLock()
	defer overrideMu.RUnlock()
	return apiOverride
}

type Config struct {
	APIURL       string
	Origin       string
	DatabaseDSN  string
	ListenAddr   string
	HTTPTimeout  time.Duration
	KafkaBrokers []string
	KafkaTopic   string
	LogLevel     string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		APIURL:       ResolveAPIURL(BuildAPIURL, override(), os.Getenv),
		Origin:       getenv("STOREFRONT_ORIGIN", "http://localhost:8080"),
		DatabaseDSN:  getenv("STOREFRONT_DB", "storefront.db"),
		ListenAddr:   getenv("STOREFRONT_ADDR", ":3000"),
		HTTPTimeout:  time.Duration(getenvInt("HTTP_TIMEOUT", 15)) * time.Second,
		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "cart_events"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
	}
}

// ResolveAPIURL picks the backend base URL: build-time value, runtime
// override, STOREFRONT_API_URL, VITE_API_URL, then DefaultAPIURL.
func ResolveAPIURL(build, runtime string, lookup func(string) string) string {
	candidates := []string{build, runtime}
	if lookup != nil {
		candidates = append(candidates, lookup("STOREFRONT_API_URL"), lookup("VITE_API_URL"))
	}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return DefaultAPIURL
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
