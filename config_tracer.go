package toyland

import "github.com/pkg/errors"

// TracerConfig configures the OpenTelemetry trace and metric providers. If
// not enabled nothing is exported.
type TracerConfig struct {
	Enabled           bool   `yaml:"enabled" json:"enabled"`
	CollectorEndpoint string `yaml:"collector_endpoint" json:"collector_endpoint"`
	// Insecure disables TLS on the connection to the collector.
	Insecure bool `yaml:"insecure" json:"insecure"`
}

// ValidateAndDefault validates the tracer configuration.
func (c *TracerConfig) ValidateAndDefault() error {
	if c.Enabled && c.CollectorEndpoint == "" {
		return errors.New("tracer can't be enabled without a collector endpoint")
	}
	return nil
}
