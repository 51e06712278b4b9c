// Package config parses the load balancer's command-line surface into a
// validated Config: the backend address list, the health-check interval,
// and the selection algorithm. Flags are parsed with pflag and bound through
// viper so that environment variables and defaults compose the same way.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultHealthCheckInterval = 10 * time.Second
	DefaultListenAddress       = "0.0.0.0:8080"
)

// Algorithm names the selection policy a Config resolved from its
// --dynamic-algo flag.
type Algorithm string

const (
	RoundRobin        Algorithm = "round-robin"
	LeastResponseTime Algorithm = "least-response-time"
)

// Config is the fully parsed and validated set of values the load balancer
// needs to start: the backend addresses, the health-check period, and the
// selection algorithm.
type Config struct {
	Backends          []string
	HealthCheckPeriod time.Duration
	Algorithm         Algorithm
	ListenAddress     string
}

// ConfigurationError marks a Config as unusable: no backends, a malformed
// address, or a non-positive interval. It is the only fatal error class at
// startup.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// Load parses args (the command-line arguments without the program name)
// into a validated Config. A nil args is parsed as no arguments at all.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("load-balancer", pflag.ContinueOnError)
	flags.StringArrayP("backends", "b", nil, "backend base URL (repeatable)")
	flags.IntP("health-check", "c", 0, "health monitor cycle period, in seconds")
	flags.BoolP("dynamic-algo", "d", false, "use LeastResponseTime instead of RoundRobin")
	flags.String("listen", "", "address to listen on")

	if err := flags.Parse(args); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}

	v := viper.New()
	v.SetEnvPrefix("LB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlag("backends", flags.Lookup("backends")); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	if err := v.BindPFlag("health-check", flags.Lookup("health-check")); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	if err := v.BindPFlag("dynamic-algo", flags.Lookup("dynamic-algo")); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	if err := v.BindPFlag("listen", flags.Lookup("listen")); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}

	v.SetDefault("health-check", int(DefaultHealthCheckInterval.Seconds()))
	v.SetDefault("listen", DefaultListenAddress)

	cfg := &Config{
		Backends:          v.GetStringSlice("backends"),
		HealthCheckPeriod: time.Duration(v.GetInt("health-check")) * time.Second,
		Algorithm:         RoundRobin,
		ListenAddress:     v.GetString("listen"),
	}
	if v.GetBool("dynamic-algo") {
		cfg.Algorithm = LeastResponseTime
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	return cfg, nil
}

// Validate checks that the config describes a usable load balancer: at
// least one well-formed backend URL, a positive health-check period, and a
// listen address in host:port form with a syntactically valid host.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backends,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.By(validateBackendURL)),
		),
		validation.Field(&c.HealthCheckPeriod,
			validation.By(func(value interface{}) error {
				d, ok := value.(time.Duration)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a duration")
				}
				if d <= 0 {
					return validation.NewError("validation_non_positive_interval", "health-check period must be positive")
				}
				return nil
			}),
		),
		validation.Field(&c.Algorithm,
			validation.Required,
			validation.In(RoundRobin, LeastResponseTime),
		),
		validation.Field(&c.ListenAddress,
			validation.Required,
			validation.By(validateListenAddress),
		),
	)
}

func validateBackendURL(value interface{}) error {
	raw, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "backend URL must use http or https")
	}
	if parsed.Host == "" {
		return validation.NewError("validation_missing_host", "backend URL must have a host")
	}
	return nil
}

func validateListenAddress(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}
	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}
	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}
	return nil
}
