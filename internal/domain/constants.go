package domain

const (
	DefaultCatalogURL                 = "http://34.74.137.80/prompt-storage/files"
	DefaultCatalogTTLSeconds          = 300
	DefaultFetchTimeoutSeconds        = 30
	DefaultRegistrySyncSeconds        = 60
	DefaultTransport                  = "stdio"
	DefaultHTTPListenAddress          = "127.0.0.1:8090"
	DefaultHTTPPath                   = "/mcp"
	DefaultObservabilityListenAddress = "0.0.0.0:9090"
)

// FallbackToolName is returned by SanitizeToolName when nothing of the
// file name survives normalization.
const FallbackToolName = "unknown_prompt"
