package config

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// LogConfig selects the slog level. An empty level means info.
type LogConfig struct {
	Level string `koanf:"level"`
}

// PProfConfig exposes net/http/pprof on a separate listener.
type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// ShutdownConfig bounds how long in-flight requests may take once a signal arrives.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

const maxShutdownTimeout = 5 * time.Minute

// field is one line of a config section dump.
type field struct {
	key   string
	value any
}

func section(title string, fields ...field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n--- %s ---\n", title)
	for _, f := range fields {
		fmt.Fprintf(&b, "  %s: %v\n", f.key, f.value)
	}
	return b.String()
}

func (c *LogConfig) String() string {
	return section("Log", field{"log.level", c.Level})
}

func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown log level: %q", c.Level)
}

func (c *PProfConfig) String() string {
	return section("PProf",
		field{"pprof.enabled", c.Enabled},
		field{"pprof.addr", c.Addr},
	)
}

func (c *PProfConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid pprof address %q: %w", c.Addr, err)
	}
	return nil
}

func (c *ShutdownConfig) String() string {
	return section("Shutdown", field{"shutdown.timeout", c.Timeout})
}

func (c *ShutdownConfig) Validate() error {
	if c.Timeout <= 0 || c.Timeout > maxShutdownTimeout {
		return fmt.Errorf("shutdown timeout must be in (0, %s], got %s", maxShutdownTimeout, c.Timeout)
	}
	return nil
}
