package config

import (
	"fmt"
	"strings"
	"time"
)

// Supported document store drivers.
const (
	StoreDriverFile     = "file"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverS3       = "s3"
	StoreDriverMemory   = "memory"
)

type StoreConfig struct {
	Driver string `koanf:"driver"`
	File   struct {
		Dir string `koanf:"dir"`
	} `koanf:"file"`
	SQLite struct {
		Path string `koanf:"path"`
	} `koanf:"sqlite"`
	Postgres DatabaseConfig `koanf:"postgres"`
	S3       S3Config       `koanf:"s3"`
}

type DatabaseConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

type S3Config struct {
	Bucket          string `koanf:"bucket"`
	Region          string `koanf:"region"`
	Endpoint        string `koanf:"endpoint"`
	Prefix          string `koanf:"prefix"`
	PathStyle       bool   `koanf:"pathstyle"`
	AccessKeyID     string `koanf:"accesskeyid"`
	SecretAccessKey string `koanf:"secretaccesskey"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  store.driver: %s\n", c.Driver))
	switch c.Driver {
	case StoreDriverFile:
		b.WriteString(fmt.Sprintf("  store.file.dir: %s\n", c.File.Dir))
	case StoreDriverSQLite:
		b.WriteString(fmt.Sprintf("  store.sqlite.path: %s\n", c.SQLite.Path))
	case StoreDriverPostgres:
		b.WriteString(fmt.Sprintf("  store.postgres.url: %s\n", maskURL(c.Postgres.URL)))
		b.WriteString(fmt.Sprintf("  store.postgres.timeout: %s\n", c.Postgres.Timeout))
	case StoreDriverS3:
		b.WriteString(fmt.Sprintf("  store.s3.bucket: %s\n", c.S3.Bucket))
		b.WriteString(fmt.Sprintf("  store.s3.region: %s\n", c.S3.Region))
		b.WriteString(fmt.Sprintf("  store.s3.endpoint: %s\n", c.S3.Endpoint))
		b.WriteString(fmt.Sprintf("  store.s3.prefix: %s\n", c.S3.Prefix))
	}
	return b.String()
}

func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case StoreDriverFile:
		if c.File.Dir == "" {
			return fmt.Errorf("store.file.dir is not configured")
		}
	case StoreDriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("store.sqlite.path is not configured")
		}
	case StoreDriverPostgres:
		return c.Postgres.Validate()
	case StoreDriverS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("store.s3.bucket is not configured")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver: %q", c.Driver)
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("database URL is not configured")
	}
	if !isValidPostgresURL(c.URL) {
		return fmt.Errorf("database URL must start with 'postgres://': %s", maskURL(c.URL))
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("database connect timeout is not configured")
	}
	return nil
}

// isValidPostgresURL checks if the provided URL is a valid PostgreSQL URL
func isValidPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://")
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	// Mask the URL by replacing the username and password with "****"
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return "****"
}
