package config

import (
	"fmt"
	"time"
)

// ScaleConfig points the terminal menu at a serial scale. An empty device means manual entry only.
type ScaleConfig struct {
	Device  string        `koanf:"device"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ScaleConfig) String() string {
	return section("Scale",
		field{"scale.device", c.Device},
		field{"scale.timeout", c.Timeout},
	)
}

func (c *ScaleConfig) Validate() error {
	if c.Device != "" && c.Timeout <= 0 {
		return fmt.Errorf("scale.timeout must be greater than 0")
	}
	return nil
}
