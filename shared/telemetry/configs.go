package telemetry

// TrackerServiceConfig is the telemetry configuration for the saga tracker
var TrackerServiceConfig = Config{
	ServiceName:    "saga-tracker",
	ServiceVersion: "1.0.0",
}

// WithOTLPEndpoint sets the OTLP endpoint for a config
func (c Config) WithOTLPEndpoint(endpoint string) Config {
	c.OTLPEndpoint = endpoint
	return c
}

// WithServiceName sets the service name for a config
func (c Config) WithServiceName(name string) Config {
	if name != "" {
		c.ServiceName = name
	}
	return c
}

// WithVersion sets the service version for a config
func (c Config) WithVersion(version string) Config {
	if version != "" {
		c.ServiceVersion = version
	}
	return c
}
