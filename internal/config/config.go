package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values. Every field has
// a default matching the legacy deployment, so running without a
// config file reproduces the original behavior (localhost broker,
// topic gnss/data, five publishes two seconds apart).
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDSender   string
	MQTTClientIDReceiver string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	TopicGNSS            string
	QoS                  byte

	// Sender
	PublishIntervalMs int
	PublishCount      int
	GNSSSource        string // "random" or "serial"
	GPSSerialPort     string
	GPSBaudRate       int

	// Receiver
	DBPath           string
	ReceiveQueueSize int
	StrictValidation bool

	// Web server
	WebServerPort int
}

// Package-level unexported variables for singleton pattern; external
// code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDSender:   "gnss-sender",
		MQTTClientIDReceiver: "gnss-receiver",
		MQTTClientIDConsole:  "gnss-console",
		MQTTClientIDWeb:      "gnss-web",
		TopicGNSS:            "gnss/data",
		QoS:                  0,
		PublishIntervalMs:    2000,
		PublishCount:         5,
		GNSSSource:           "random",
		GPSSerialPort:        "/dev/serial0",
		GPSBaudRate:          9600,
		DBPath:               "gnss_data.db",
		ReceiveQueueSize:     16,
		StrictValidation:     false,
		WebServerPort:        8080,
	}
}

// Load reads the configuration file and returns a Config struct with
// defaults applied for any key the file does not set.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_SENDER":
		c.MQTTClientIDSender = value
	case "MQTT_CLIENT_ID_RECEIVER":
		c.MQTTClientIDReceiver = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "TOPIC_GNSS":
		c.TopicGNSS = value
	case "QOS":
		qos, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid QOS %q: %w", value, err)
		}
		if qos < 0 || qos > 2 {
			return fmt.Errorf("QOS must be 0-2, got %d", qos)
		}
		c.QoS = byte(qos)

	// Sender
	case "PUBLISH_INTERVAL_MS":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PUBLISH_INTERVAL_MS %q: %w", value, err)
		}
		c.PublishIntervalMs = interval
	case "PUBLISH_COUNT":
		count, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PUBLISH_COUNT %q: %w", value, err)
		}
		c.PublishCount = count
	case "GNSS_SOURCE":
		c.GNSSSource = value
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Receiver
	case "DB_PATH":
		c.DBPath = value
	case "RECEIVE_QUEUE_SIZE":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid RECEIVE_QUEUE_SIZE %q: %w", value, err)
		}
		c.ReceiveQueueSize = size
	case "STRICT_VALIDATION":
		strict, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid STRICT_VALIDATION %q: %w", value, err)
		}
		c.StrictValidation = strict

	// Web server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all fields hold usable values.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicGNSS == "" {
		return fmt.Errorf("TOPIC_GNSS is required")
	}
	if c.PublishIntervalMs <= 0 {
		return fmt.Errorf("PUBLISH_INTERVAL_MS must be positive, got %d", c.PublishIntervalMs)
	}
	if c.PublishCount <= 0 {
		return fmt.Errorf("PUBLISH_COUNT must be positive, got %d", c.PublishCount)
	}
	if c.GNSSSource != "random" && c.GNSSSource != "serial" {
		return fmt.Errorf("GNSS_SOURCE must be \"random\" or \"serial\", got %q", c.GNSSSource)
	}
	if c.GNSSSource == "serial" && c.GPSSerialPort == "" {
		return fmt.Errorf("GPS_SERIAL_PORT is required with GNSS_SOURCE=serial")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.ReceiveQueueSize < 1 {
		return fmt.Errorf("RECEIVE_QUEUE_SIZE must be at least 1, got %d", c.ReceiveQueueSize)
	}
	return nil
}

// InitGlobal initializes the global configuration. The file at
// configPath is optional; when it does not exist the defaults are
// used. Uses sync.Once so this only runs once even if called from
// several entrypoints.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
			globalConfig = Default()
			return
		}
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be
// called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
