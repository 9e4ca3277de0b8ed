package config

import (
	"fmt"
	"strconv"
)

// GrpcServerConfig configures the listener that serves grpc.health.v1.
type GrpcServerConfig struct {
	Port              string `koanf:"port"`
	ReflectionEnabled bool   `koanf:"reflectionenabled"`
}

func (c *GrpcServerConfig) String() string {
	return section("gRPC",
		field{"grpc.port", c.Port},
		field{"grpc.reflectionenabled", c.ReflectionEnabled},
	)
}

func (c *GrpcServerConfig) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid gRPC server port: %q", c.Port)
	}
	return nil
}
