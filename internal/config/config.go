package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// Port is the TCP port bound on all interfaces.
	Port         int
	RouteVariant string
	// ReadTimeout bounds the wait for the first request line. Zero waits forever.
	ReadTimeout time.Duration

	// JournalPath is the SQLite file recording every calculation. Empty disables the journal.
	JournalPath     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// MQTTBroker is the broker host results are published to. Empty disables publishing.
	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	MQTTTopic    string
}

// ListenAddr is the address the TCP listener binds.
func (c Config) ListenAddr() string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(c.Port))
}

func (c Config) JournalEnabled() bool { return c.JournalPath != "" }

func (c Config) MQTTEnabled() bool { return c.MQTTBroker != "" }

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	portStr := strings.TrimSpace(os.Getenv("PORT"))
	if portStr == "" {
		portStr = "5000"
	}
	port, err := parsePort("PORT", portStr)
	if err != nil {
		return Config{}, err
	}

	variant := strings.TrimSpace(os.Getenv("ROUTE_VARIANT"))
	if variant == "" {
		variant = "mould"
	}
	switch variant {
	case "mould", "dewpoint":
	default:
		return Config{}, fmt.Errorf("invalid ROUTE_VARIANT %q (allowed: mould, dewpoint)", variant)
	}

	readTimeoutStr := strings.TrimSpace(os.Getenv("READ_TIMEOUT"))
	if readTimeoutStr == "" {
		readTimeoutStr = "0s"
	}
	readTimeout, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid READ_TIMEOUT %q: %w", readTimeoutStr, err)
	}
	if readTimeout < 0 {
		return Config{}, fmt.Errorf("READ_TIMEOUT must not be negative, got %v", readTimeout)
	}

	journalPath := strings.TrimSpace(os.Getenv("JOURNAL_PATH"))

	maxOpenConnsStr := strings.TrimSpace(os.Getenv("DB_MAX_OPEN_CONNS"))
	if maxOpenConnsStr == "" {
		maxOpenConnsStr = "1"
	}
	maxOpenConns, err := strconv.Atoi(maxOpenConnsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q: %w", maxOpenConnsStr, err)
	}

	maxIdleConnsStr := strings.TrimSpace(os.Getenv("DB_MAX_IDLE_CONNS"))
	if maxIdleConnsStr == "" {
		maxIdleConnsStr = "1"
	}
	maxIdleConns, err := strconv.Atoi(maxIdleConnsStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_IDLE_CONNS %q: %w", maxIdleConnsStr, err)
	}

	connMaxLifetimeStr := strings.TrimSpace(os.Getenv("DB_CONN_MAX_LIFETIME"))
	if connMaxLifetimeStr == "" {
		connMaxLifetimeStr = "0s"
	}
	connMaxLifetime, err := time.ParseDuration(connMaxLifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", connMaxLifetimeStr, err)
	}

	mqttBroker := strings.TrimSpace(os.Getenv("MQTT_BROKER"))

	mqttPortStr := strings.TrimSpace(os.Getenv("MQTT_PORT"))
	if mqttPortStr == "" {
		mqttPortStr = "1883"
	}
	mqttPort, err := parsePort("MQTT_PORT", mqttPortStr)
	if err != nil {
		return Config{}, err
	}

	mqttClientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if mqttClientID == "" {
		mqttClientID = "dewpoint-server"
	}

	mqttTopic := strings.TrimSpace(os.Getenv("MQTT_TOPIC"))
	if mqttTopic == "" {
		mqttTopic = "dewpoint/calculations"
	}

	return Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		Port:            port,
		RouteVariant:    variant,
		ReadTimeout:     readTimeout,
		JournalPath:     journalPath,
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
		MQTTBroker:      mqttBroker,
		MQTTPort:        mqttPort,
		MQTTClientID:    mqttClientID,
		MQTTTopic:       mqttTopic,
	}, nil
}

func parsePort(name, s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%s must be between 1 and 65535, got %d", name, port)
	}
	return port, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
