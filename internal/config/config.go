package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type App struct {
	Env      string
	LogLevel string
}

type HTTP struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

type DB struct {
	Driver   string
	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int

	SQLitePath string
}

// DSN prefers DATABASE_URL and otherwise assembles one from the parts.
func (d DB) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return "postgres://" + d.User + ":" + d.Password + "@" +
		d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

type Kafka struct {
	Brokers []string
	Topic   string
}

// Enabled is false when no brokers are configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

type Config struct {
	App   App
	HTTP  HTTP
	DB    DB
	Kafka Kafka
}

func Load() Config {
	return Config{
		App: App{
			Env:      getenv("APP_ENV", "dev"),
			LogLevel: getenv("LOG_LEVEL", "info"),
		},
		HTTP: HTTP{
			Port:           getenv("PORT", "8080"),
			ReadTimeout:    parseDuration(getenv("HTTP_READ_TIMEOUT", "15s"), 15*time.Second),
			WriteTimeout:   parseDuration(getenv("HTTP_WRITE_TIMEOUT", "15s"), 15*time.Second),
			RequestTimeout: parseDuration(getenv("HTTP_REQUEST_TIMEOUT", "5s"), 5*time.Second),
		},
		DB: DB{
			Driver:     strings.ToLower(getenv("STORE_DRIVER", DriverPostgres)),
			URL:        os.Getenv("DATABASE_URL"),
			Host:       getenv("DB_HOST", "127.0.0.1"),
			Port:       getenv("DB_PORT", "5432"),
			Name:       getenv("DB_NAME", "pedidos_db"),
			User:       getenv("DB_USER", "postgres"),
			Password:   getenv("DB_PASSWORD", "postgres"),
			SSLMode:    getenv("DB_SSLMODE", "disable"),
			MaxConns:   atoi(getenv("DB_MAX_CONNS", "10")),
			SQLitePath: getenv("SQLITE_PATH", "pedidos.db"),
		},
		Kafka: Kafka{
			Brokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenv("ORDERS_EVENTS_TOPIC", "pedidos-events"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
