package config

import (
	"os"
	"strconv"
	"time"
)

const DefaultUpstreamURL = "https://api.redseam.redberryinternship.ge/api"

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	UpstreamURL     string
	UpstreamTimeout time.Duration

	DatabaseURL string
	RedisAddr   string

	KafkaBroker  string
	KafkaTopic   string
	KafkaGroupID string

	CartIdleTTL time.Duration
	SessionTTL  time.Duration
	DeliveryFee string
}

func Load() Config {
	return Config{
		AppEnv:   get("APP_ENV", "dev"),
		Port:     get("PORT", "3000"),
		LogLevel: get("LOG_LEVEL", ""),

		UpstreamURL:     get("UPSTREAM_API_URL", DefaultUpstreamURL),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 15*time.Second),

		DatabaseURL: get("DB_URL", ""),
		RedisAddr:   get("REDIS_ADDR", ""),

		KafkaBroker:  get("KAFKA_BROKER", ""),
		KafkaTopic:   get("KAFKA_TOPIC", "storefront.events"),
		KafkaGroupID: get("KAFKA_GROUP_ID", "storefront-cache-consumer"),

		CartIdleTTL: getDuration("CART_IDLE_TTL", time.Hour),
		SessionTTL:  getDuration("SESSION_TTL", 7*24*time.Hour),
		DeliveryFee: get("DELIVERY_FEE", "5"),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

// getDuration accepts Go duration strings ("90s") or plain seconds.
func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n := getInt(k, -1); n >= 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
