package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"promptd/internal/domain"
)

// Config is the normalized runtime configuration.
type Config struct {
	CatalogURL    string
	CacheTTL      time.Duration
	FetchTimeout  time.Duration
	RegistrySync  time.Duration
	Transport     string
	HTTP          HTTPConfig
	Observability ObservabilityConfig
}

type HTTPConfig struct {
	ListenAddress string
	Path          string
}

type ObservabilityConfig struct {
	ListenAddress string
	EnableMetrics bool
	EnableHealthz bool
}

const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "http"
)

type rawConfig struct {
	CatalogURL          string                 `mapstructure:"catalogURL"`
	CacheTTLSeconds     int                    `mapstructure:"cacheTTLSeconds"`
	FetchTimeoutSeconds int                    `mapstructure:"fetchTimeoutSeconds"`
	RegistrySyncSeconds int                    `mapstructure:"registrySyncSeconds"`
	Transport           string                 `mapstructure:"transport"`
	HTTP                rawHTTPConfig          `mapstructure:"http"`
	Observability       rawObservabilityConfig `mapstructure:"observability"`
}

type rawHTTPConfig struct {
	ListenAddress string `mapstructure:"listenAddress"`
	Path          string `mapstructure:"path"`
}

type rawObservabilityConfig struct {
	ListenAddress string `mapstructure:"listenAddress"`
	EnableMetrics bool   `mapstructure:"enableMetrics"`
	EnableHealthz bool   `mapstructure:"enableHealthz"`
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix("PROMPTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalogURL", domain.DefaultCatalogURL)
	v.SetDefault("cacheTTLSeconds", domain.DefaultCatalogTTLSeconds)
	v.SetDefault("fetchTimeoutSeconds", domain.DefaultFetchTimeoutSeconds)
	v.SetDefault("registrySyncSeconds", domain.DefaultRegistrySyncSeconds)
	v.SetDefault("transport", domain.DefaultTransport)
	v.SetDefault("http.listenAddress", domain.DefaultHTTPListenAddress)
	v.SetDefault("http.path", domain.DefaultHTTPPath)
	v.SetDefault("observability.listenAddress", domain.DefaultObservabilityListenAddress)
	v.SetDefault("observability.enableMetrics", true)
	v.SetDefault("observability.enableHealthz", true)
}

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("config")}
}

// Load reads the config file at path, expanding $VAR references from the
// environment. An empty path yields the defaults, still overridable via
// PROMPTD_* environment variables.
func (l *Loader) Load(path string) (Config, error) {
	v := newConfigViper()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		expanded, missing := expandConfigEnv(data)
		if len(missing) > 0 {
			l.logger.Warn("missing environment variables in config",
				zap.String("path", path),
				zap.Strings("missing", missing),
			)
		}

		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return normalize(raw)
}

func normalize(raw rawConfig) (Config, error) {
	var errs []string
	if strings.TrimSpace(raw.CatalogURL) == "" {
		errs = append(errs, "catalogURL must not be empty")
	}
	if raw.CacheTTLSeconds <= 0 {
		errs = append(errs, "cacheTTLSeconds must be > 0")
	}
	if raw.FetchTimeoutSeconds <= 0 {
		errs = append(errs, "fetchTimeoutSeconds must be > 0")
	}
	if raw.RegistrySyncSeconds <= 0 {
		errs = append(errs, "registrySyncSeconds must be > 0")
	}

	transport := strings.ToLower(strings.TrimSpace(raw.Transport))
	switch transport {
	case TransportStdio, TransportStreamableHTTP:
	case "":
		transport = TransportStdio
	default:
		errs = append(errs, fmt.Sprintf("transport %q is not supported (stdio, http)", raw.Transport))
	}
	if transport == TransportStreamableHTTP && strings.TrimSpace(raw.HTTP.ListenAddress) == "" {
		errs = append(errs, "http.listenAddress must not be empty for the http transport")
	}

	if len(errs) > 0 {
		return Config{}, errors.New(strings.Join(errs, "; "))
	}

	return Config{
		CatalogURL:   strings.TrimSpace(raw.CatalogURL),
		CacheTTL:     time.Duration(raw.CacheTTLSeconds) * time.Second,
		FetchTimeout: time.Duration(raw.FetchTimeoutSeconds) * time.Second,
		RegistrySync: time.Duration(raw.RegistrySyncSeconds) * time.Second,
		Transport:    transport,
		HTTP: HTTPConfig{
			ListenAddress: raw.HTTP.ListenAddress,
			Path:          raw.HTTP.Path,
		},
		Observability: ObservabilityConfig{
			ListenAddress: raw.Observability.ListenAddress,
			EnableMetrics: raw.Observability.EnableMetrics,
			EnableHealthz: raw.Observability.EnableHealthz,
		},
	}, nil
}

// expandConfigEnv substitutes $VAR and ${VAR} references, tracking names
// that resolve to nothing.
func expandConfigEnv(raw []byte) (string, []string) {
	missing := make(map[string]struct{})
	expanded := os.Expand(string(raw), func(key string) string {
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		missing[key] = struct{}{}
		return ""
	})

	if len(missing) == 0 {
		return expanded, nil
	}
	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return expanded, names
}
