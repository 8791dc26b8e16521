package metadata

import (
	"fmt"
	"os"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DbName   string
	SSLMode  string
}

// NewConfig reads from environment variables.
func NewConfig() *Config {
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	sslMode := os.Getenv("POSTGRES_SSL_MODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	dbName := os.Getenv("POSTGRES_DB")
	if dbName == "" {
		dbName = "imagegen"
	}

	return &Config{
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     port,
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DbName:   dbName,
		SSLMode:  sslMode,
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("metadata: missing POSTGRES_HOST")
	}
	if c.User == "" {
		return fmt.Errorf("metadata: missing POSTGRES_USER")
	}
	if c.DbName == "" {
		return fmt.Errorf("metadata: missing POSTGRES_DB")
	}
	return nil
}

// DSN builds the gorm connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DbName, c.SSLMode)
}
