package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// Notification Configuration
	Notification NotificationConfig `json:"notification"`

	// Email Configuration (optional)
	Email EmailConfig `json:"email"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// NotificationConfig contains delivery hub configuration
type NotificationConfig struct {
	Workers           int `json:"workers"`             // Number of worker goroutines
	ChannelBufferSize int `json:"channel_buffer_size"` // Delivery channel buffer size
	DefaultFetchLimit int `json:"default_fetch_limit"` // Cap on filtered fetches
}

// EmailConfig contains email dispatcher configuration (optional)
type EmailConfig struct {
	FromEmail string `json:"from_email"`
	FromName  string `json:"from_name"`
	Enabled   bool   `json:"enabled"`
}

// LoadConfig builds the configuration from environment variables with
// development defaults.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvOrDefault("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvIntOrDefault("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvIntOrDefault("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnvOrDefault("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", "localhost"),
			Port:         getEnvOrDefault("DB_PORT", "3306"),
			Username:     getEnvOrDefault("DB_USER", "fabtrak"),
			Password:     getEnvOrDefault("DB_PASSWORD", "fabtrak123"),
			DatabaseName: getEnvOrDefault("DB_NAME", "fabtrak"),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		},
		Notification: NotificationConfig{
			Workers:           getEnvIntOrDefault("NOTIF_WORKERS", 5),
			ChannelBufferSize: getEnvIntOrDefault("NOTIF_CHANNEL_BUFFER", 1000),
			DefaultFetchLimit: getEnvIntOrDefault("NOTIF_FETCH_LIMIT", 50),
		},
		Email: EmailConfig{
			FromEmail: getEnvOrDefault("FROM_EMAIL", ""),
			FromName:  getEnvOrDefault("FROM_NAME", "Fabtrak"),
			Enabled:   getEnvOrDefault("EMAIL_ENABLED", "false") == "true",
		},
	}
}

func (cfg *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
