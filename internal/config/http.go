package config

import (
	"fmt"
	"time"
)

// HTTPConfig configures the REST listener.
type HTTPConfig struct {
	Port           int `koanf:"port"`
	MaxHeaderBytes int `koanf:"maxheaderbytes"`
	Timeout        struct {
		Read       time.Duration `koanf:"read"`
		Write      time.Duration `koanf:"write"`
		Idle       time.Duration `koanf:"idle"`
		ReadHeader time.Duration `koanf:"readheader"`
	} `koanf:"timeout"`
}

func (c *HTTPConfig) String() string {
	return section("Server",
		field{"server.port", c.Port},
		field{"server.maxheaderbytes", c.MaxHeaderBytes},
		field{"server.timeout.read", c.Timeout.Read},
		field{"server.timeout.write", c.Timeout.Write},
		field{"server.timeout.idle", c.Timeout.Idle},
		field{"server.timeout.readheader", c.Timeout.ReadHeader},
	)
}

func (c *HTTPConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid HTTP server port: %d", c.Port)
	}
	if c.MaxHeaderBytes < 0 {
		return fmt.Errorf("invalid HTTP server max header bytes: %d", c.MaxHeaderBytes)
	}
	timeouts := []field{
		{"read", c.Timeout.Read},
		{"write", c.Timeout.Write},
		{"idle", c.Timeout.Idle},
		{"read header", c.Timeout.ReadHeader},
	}
	for _, t := range timeouts {
		if d := t.value.(time.Duration); d <= 0 {
			return fmt.Errorf("invalid HTTP server %s timeout: %v", t.key, d)
		}
	}
	return nil
}
