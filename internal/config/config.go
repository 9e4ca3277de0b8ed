// Package config holds the configuration model of the point-of-sale processes and its loader.
package config

import (
	"strings"
)

var _ Validator = (*Config)(nil)

type Config struct {
	HTTPServer HTTPConfig       `koanf:"server"`
	GRPC       GrpcServerConfig `koanf:"grpc"`
	Log        LogConfig        `koanf:"log"`
	PProf      PProfConfig      `koanf:"pprof"`
	Shutdown   ShutdownConfig   `koanf:"shutdown"`
	Store      StoreConfig      `koanf:"store"`
	Events     EventsConfig     `koanf:"events"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	Scale      ScaleConfig      `koanf:"scale"`
	Seed       SeedConfig       `koanf:"seed"`
}

// Defaults are the values used when neither config.yaml nor the environment set a key.
// They reproduce the stand-alone setup: JSON files in the working directory, no broker.
func Defaults() map[string]any {
	return map[string]any{
		"server.port":                               8000,
		"server.maxheaderbytes":                     1 << 20,
		"server.timeout.read":                       "5s",
		"server.timeout.write":                      "10s",
		"server.timeout.idle":                       "60s",
		"server.timeout.readheader":                 "2s",
		"grpc.port":                                 "9000",
		"grpc.reflectionenabled":                    false,
		"log.level":                                 "info",
		"pprof.enabled":                             false,
		"pprof.addr":                                "localhost:6060",
		"shutdown.timeout":                          "15s",
		"store.driver":                              StoreDriverFile,
		"store.file.dir":                            ".",
		"store.sqlite.path":                         "pos.db",
		"store.postgres.timeout":                    "10s",
		"store.s3.region":                           "us-east-1",
		"events.enabled":                            false,
		"events.subject":                            "pos.sales.completed",
		"events.nats.timeout":                       "5s",
		"events.circuitbreaker.consecutivefailures": 5,
		"events.circuitbreaker.errorratepercent":    50,
		"events.circuitbreaker.opentimeout":         "30s",
		"telemetry.traces.otlphttp.timeout":         "10s",
		"scale.device":                              "/dev/ttyUSB0",
		"scale.timeout":                             "1s",
	}
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Store.String())
	b.WriteString(c.Events.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Scale.String())
	b.WriteString(c.Seed.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []Validator{
		&c.HTTPServer,
		&c.GRPC,
		&c.Log,
		&c.PProf,
		&c.Shutdown,
		&c.Store,
		&c.Events,
		&c.Telemetry,
		&c.Scale,
		&c.Seed,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
