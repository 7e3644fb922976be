package config

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/jtyocum/groupstool/cmd/groupstool/internal/client"
	"github.com/jtyocum/groupstool/pkg/sdk"
)

type contextKey string

const configKey contextKey = "groupstool-config"

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Flag names shared between the root command and Load.
const (
	FlagAPI     = "api"
	FlagTimeout = "timeout"
	FlagCACert  = "ca-cert"
	FlagOutput  = "output"
	FlagDebug   = "debug"
	FlagProfile = "profile"
)

// Settings is the resolved configuration for one invocation.
type Settings struct {
	// Base URL of the groups service, e.g. https://groups.example.edu/group_sws/v3
	APIURL string

	// Whole-request timeout
	Timeout time.Duration

	// Optional PEM bundle of CAs used to verify the service
	CACert string

	// text or json
	Output string

	Debug bool
}

// GlobalConfig holds shared configuration for all groupstool commands.
// The root command's PersistentPreRunE injects it into the cobra command
// context.
type GlobalConfig struct {
	Settings
	Logger         *pterm.Logger
	ClientProvider *client.Provider
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics.
// Only command RunE functions may use it; the root command has injected the
// config by then.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("groupstool: config not found in context - this is a bug in groupstool")
	}
	return cfg
}

// Load resolves settings with precedence flag > environment > profile >
// default. defaultAPI is the base URL baked in at build time, if any.
// A missing base URL is not an error here; commands that talk to the
// service check for it.
func Load(flags *pflag.FlagSet, defaultAPI string) (*Settings, error) {
	profileName := getEnv("GROUPS_PROFILE", "")
	if flags.Changed(FlagProfile) {
		profileName, _ = flags.GetString(FlagProfile)
	}

	userCfg, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}
	profile, err := userCfg.ActiveProfile(profileName)
	if err != nil {
		return nil, err
	}

	settings := &Settings{
		APIURL:  resolveString(flags, FlagAPI, "GROUPS_API", profile.API, defaultAPI),
		CACert:  resolveString(flags, FlagCACert, "GROUPS_CA_BUNDLE", profile.CACert, ""),
		Output:  resolveString(flags, FlagOutput, "GROUPS_OUTPUT", profile.Output, OutputText),
		Debug:   getEnvBool("GROUPS_DEBUG", false),
		Timeout: sdk.DefaultTimeout,
	}

	if flags.Changed(FlagDebug) {
		settings.Debug, _ = flags.GetBool(FlagDebug)
	}

	switch {
	case flags.Changed(FlagTimeout):
		settings.Timeout, _ = flags.GetDuration(FlagTimeout)
	case os.Getenv("GROUPS_TIMEOUT") != "":
		if settings.Timeout, err = time.ParseDuration(os.Getenv("GROUPS_TIMEOUT")); err != nil {
			return nil, fmt.Errorf("invalid GROUPS_TIMEOUT: %w", err)
		}
	case profile.Timeout != "":
		if settings.Timeout, err = time.ParseDuration(profile.Timeout); err != nil {
			return nil, fmt.Errorf("invalid timeout in profile: %w", err)
		}
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) validate() error {
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}

	if s.Output != OutputText && s.Output != OutputJSON {
		return fmt.Errorf("unsupported output format %q: use '%s' or '%s'", s.Output, OutputText, OutputJSON)
	}

	if s.APIURL == "" {
		return nil
	}
	s.APIURL = strings.TrimRight(s.APIURL, "/")
	return ValidateAPIURL(s.APIURL)
}

// ValidateAPIURL requires an absolute https URL. Plain http is allowed only
// for loopback hosts.
func ValidateAPIURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid groups API URL %q: %w", raw, err)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid groups API URL %q: must be absolute", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid groups API URL %q: must not carry a query or fragment", raw)
	}

	switch u.Scheme {
	case "https":
		return nil
	case "http":
		if isLoopback(u.Hostname()) {
			return nil
		}
		return fmt.Errorf("groups API URL %q must use https", raw)
	default:
		return fmt.Errorf("groups API URL %q has unsupported scheme %q", raw, u.Scheme)
	}
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func resolveString(flags *pflag.FlagSet, flagName, envKey, profileValue, defaultValue string) string {
	if flags.Changed(flagName) {
		v, _ := flags.GetString(flagName)
		return v
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if profileValue != "" {
		return profileValue
	}
	return defaultValue
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
