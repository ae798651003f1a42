package tracer

// Config controls the OpenTelemetry tracer provider.
type Config struct {
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME"`

	// AppEnv is reported as deployment.environment, e.g. "production".
	AppEnv string `yaml:"app_env" envconfig:"TRACER_APP_ENV"`

	// EnableExport ships spans to an OTLP/HTTP collector. When false, spans are
	// still created (and propagated) but never exported.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`

	// ExporterEndpoint is the collector URL, e.g. "http://otel-collector:4318".
	// Empty means the OTEL_EXPORTER_OTLP_* environment defaults.
	ExporterEndpoint string `yaml:"exporter_endpoint" envconfig:"TRACER_EXPORTER_ENDPOINT"`
}
