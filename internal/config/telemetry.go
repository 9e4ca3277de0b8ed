package config

import (
	"fmt"
	"strings"
	"time"
)

// TelemetryConfig configures trace export. Metrics are always served on /telemetry/metrics.
type TelemetryConfig struct {
	Traces TracesConfig `koanf:"traces"`
}

type TracesConfig struct {
	OtlpHttp OtlpHttpConfig `koanf:"otlphttp"`
}

// OtlpHttpConfig points at an OTLP/HTTP collector. Endpoint is host:port without a scheme.
type OtlpHttpConfig struct {
	Endpoint string        `koanf:"endpoint"`
	Insecure bool          `koanf:"insecure"`
	Timeout  time.Duration `koanf:"timeout"`
}

// TracingEnabled reports whether an OTLP collector endpoint is configured.
func (c *TelemetryConfig) TracingEnabled() bool {
	return c.Traces.OtlpHttp.Endpoint != ""
}

func (c *TelemetryConfig) String() string {
	otlp := c.Traces.OtlpHttp
	return section("Telemetry",
		field{"telemetry.traces.otlphttp.endpoint", otlp.Endpoint},
		field{"telemetry.traces.otlphttp.insecure", otlp.Insecure},
		field{"telemetry.traces.otlphttp.timeout", otlp.Timeout},
	)
}

func (c *TelemetryConfig) Validate() error {
	if !c.TracingEnabled() {
		return nil
	}
	otlp := c.Traces.OtlpHttp
	if strings.Contains(otlp.Endpoint, "://") {
		return fmt.Errorf("telemetry endpoint must be host:port, got %q", otlp.Endpoint)
	}
	if otlp.Timeout <= 0 {
		return fmt.Errorf("telemetry timeout must be greater than 0")
	}
	return nil
}
