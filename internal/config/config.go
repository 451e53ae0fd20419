package config

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-errors/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Config struct {
	RPC      RPC          `json:"rpc"`
	LogLevel LogLevel     `json:"log_level" yaml:"log_level"`
	Output   OutputFormat `json:"output"`
	Watch    Watch        `json:"watch"`
}

type RPC struct {
	Host       string        `json:"host"`
	Auth       string        `json:"auth"`
	CookieFile string        `json:"cookie_file" yaml:"cookie_file"`
	Timeout    time.Duration `json:"timeout"`
}

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

type OutputFormat string

const (
	OutputAuto  OutputFormat = "auto"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
	OutputTable OutputFormat = "table"
)

type PProf struct {
	Enabled bool `json:"enabled"`
}

type Metrics struct {
	Host      string   `json:"host"`
	Port      uint16   `json:"port"`
	PProf     PProf    `json:"pprof"`
	CORSHosts []string `json:"cors_hosts" yaml:"cors_hosts"`
}

type Tracing struct {
	Enabled      bool   `json:"enabled"`
	OTLPEndpoint string `json:"otlp_endpoint" yaml:"otlp_endpoint"`
}

type Watch struct {
	Interval time.Duration `json:"interval"`
	Metrics  Metrics       `json:"metrics"`
	Tracing  Tracing       `json:"tracing"`
}

//nolint:golint,gochecknoglobals
var (
	ConfigFileKey            = "config"
	EnvFileKey               = "env_file"
	RPCHostKey               = "rpc.host"
	RPCAuthKey               = "rpc.auth"
	RPCCookieFileKey         = "rpc.cookie_file"
	RPCTimeoutKey            = "rpc.timeout"
	LogLevelKey              = "log_level"
	OutputKey                = "output"
	WatchIntervalKey         = "watch.interval"
	WatchMetricsHostKey      = "watch.metrics.host"
	WatchMetricsPortKey      = "watch.metrics.port"
	WatchMetricsPProfKey     = "watch.metrics.pprof.enabled"
	WatchMetricsCORSHostsKey = "watch.metrics.cors_hosts"
	WatchTracingEnabledKey   = "watch.tracing.enabled"
	WatchTracingOTLPEndKey   = "watch.tracing.otlp_endpoint"
)

//nolint:golint,gochecknoglobals
var (
	DefaultConfigPath = filepath.Join(xdg.ConfigHome, "zcash-rcli", "config.yaml")
	DefaultCookieFile = filepath.Join(xdg.Home, ".zcash", ".cookie")
)

const (
	DefaultEnvFile          = ".env"
	DefaultRPCTimeout       = 30 * time.Second
	DefaultLogLevel         = LogLevelInfo
	DefaultOutput           = OutputAuto
	DefaultWatchInterval    = 15 * time.Second
	DefaultWatchMetricsHost = "127.0.0.1"
	DefaultWatchMetricsPort = 9232
	DefaultZcashRPCPort     = 8232
)

// RegisterFlags adds the configuration flags as persistent flags, so every
// subcommand accepts them.
func RegisterFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(ConfigFileKey, "c", DefaultConfigPath, "Config file path")
	cmd.PersistentFlags().String(EnvFileKey, DefaultEnvFile, "Dotenv file loaded into the environment before anything else")
	cmd.PersistentFlags().String(RPCHostKey, "", "zcashd RPC host[:port] (falls back to $ZCASHRPC_HOST)")
	cmd.PersistentFlags().String(RPCAuthKey, "", "zcashd RPC credential, user:password (falls back to the cookie file)")
	cmd.PersistentFlags().String(RPCCookieFileKey, DefaultCookieFile, "zcashd RPC cookie file")
	cmd.PersistentFlags().Duration(RPCTimeoutKey, DefaultRPCTimeout, "Timeout for a single RPC call")
	cmd.PersistentFlags().String(LogLevelKey, string(DefaultLogLevel), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringP(OutputKey, "o", string(DefaultOutput), "Output format (auto, json, yaml, table)")
	cmd.PersistentFlags().Duration(WatchIntervalKey, DefaultWatchInterval, "Polling interval for watch")
	cmd.PersistentFlags().String(WatchMetricsHostKey, DefaultWatchMetricsHost, "Metrics server host for watch")
	cmd.PersistentFlags().Uint16(WatchMetricsPortKey, DefaultWatchMetricsPort, "Metrics server port for watch")
	cmd.PersistentFlags().Bool(WatchMetricsPProfKey, false, "Enable pprof on the metrics server")
	cmd.PersistentFlags().StringSlice(WatchMetricsCORSHostsKey, []string{}, "Comma-separated list of CORS hosts for the metrics server")
	cmd.PersistentFlags().Bool(WatchTracingEnabledKey, false, "Enable Open Telemetry tracing for watch")
	cmd.PersistentFlags().String(WatchTracingOTLPEndKey, "", "Open Telemetry OTLP/HTTP endpoint URL")
}

var (
	ErrInvalidLogLevel      = errors.New("Invalid log level provided")
	ErrInvalidOutputFormat  = errors.New("Invalid output format provided")
	ErrInvalidTimeout       = errors.New("RPC timeout must be positive")
	ErrInvalidInterval      = errors.New("Watch interval must be positive")
	ErrCredentialRequired   = errors.New("RPC credential is required: set rpc.auth or a readable rpc.cookie_file")
	ErrOTLPEndpointRequired = errors.New("OTLP endpoint is required when tracing is enabled")
)

func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return ErrInvalidLogLevel
	}
	switch c.Output {
	case OutputAuto, OutputJSON, OutputYAML, OutputTable:
	default:
		return ErrInvalidOutputFormat
	}
	if c.RPC.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Watch.Interval <= 0 {
		return ErrInvalidInterval
	}
	if c.Watch.Tracing.Enabled && c.Watch.Tracing.OTLPEndpoint == "" {
		return ErrOTLPEndpointRequired
	}
	return nil
}

// SlogLevel maps the configured level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Credential returns rpc.auth when set, otherwise the trimmed contents of
// rpc.cookie_file.
func (c *Config) Credential() (string, error) {
	if c.RPC.Auth != "" {
		return c.RPC.Auth, nil
	}
	if c.RPC.CookieFile == "" {
		return "", ErrCredentialRequired
	}
	data, err := os.ReadFile(c.RPC.CookieFile)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCredentialRequired, err)
	}
	cookie := strings.TrimSpace(string(data))
	if cookie == "" {
		return "", ErrCredentialRequired
	}
	return cookie, nil
}

// HostPort returns rpc.host with zcashd's default RPC port added when it has
// none. It is empty when no host is configured.
func (c *Config) HostPort() string {
	host := c.RPC.Host
	if host == "" {
		return ""
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(strings.Trim(host, "[]"), strconv.Itoa(DefaultZcashRPCPort))
}

func envName(flag string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.ToUpper(flag), "-", "_"), ".", "__")
}

func LoadConfig(cmd *cobra.Command) (*Config, error) {
	var config Config

	envFile, err := cmd.Flags().GetString(EnvFileKey)
	if err != nil {
		return &config, fmt.Errorf("failed to get env file path: %w", err)
	}
	if envFile != "" {
		// Existing environment variables win over the file.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &config, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	// Load flags from envs
	ctx, cancel := context.WithCancelCause(cmd.Context())
	defer cancel(nil)
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if ctx.Err() != nil {
			return
		}
		if val, ok := os.LookupEnv(envName(f.Name)); !f.Changed && ok {
			if err := f.Value.Set(val); err != nil {
				cancel(err)
			}
			f.Changed = true
		}
	})
	if ctx.Err() != nil {
		return &config, fmt.Errorf("failed to load env: %w", context.Cause(ctx))
	}

	configPath, err := cmd.Flags().GetString(ConfigFileKey)
	if err != nil {
		return &config, fmt.Errorf("failed to get config path: %w", err)
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return &config, fmt.Errorf("failed to read config: %w", err)
		} else if err == nil {
			if err := yaml.Unmarshal(data, &config); err != nil {
				return &config, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	err = overrideFlags(&config, cmd)
	if err != nil {
		return &config, fmt.Errorf("failed to override flags: %w", err)
	}

	// Defaults
	if config.RPC.CookieFile == "" {
		config.RPC.CookieFile = DefaultCookieFile
	}
	if config.RPC.Timeout == 0 {
		config.RPC.Timeout = DefaultRPCTimeout
	}
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}
	if config.Output == "" {
		config.Output = DefaultOutput
	}
	if config.Watch.Interval == 0 {
		config.Watch.Interval = DefaultWatchInterval
	}
	if config.Watch.Metrics.Host == "" {
		config.Watch.Metrics.Host = DefaultWatchMetricsHost
	}
	// An explicit port 0 asks for any free port.
	if config.Watch.Metrics.Port == 0 && !cmd.Flags().Changed(WatchMetricsPortKey) {
		config.Watch.Metrics.Port = DefaultWatchMetricsPort
	}

	return &config, nil
}

func overrideFlags(config *Config, cmd *cobra.Command) error {
	var err error
	if cmd.Flags().Changed(RPCHostKey) {
		config.RPC.Host, err = cmd.Flags().GetString(RPCHostKey)
		if err != nil {
			return fmt.Errorf("failed to get RPC host: %w", err)
		}
	}

	if cmd.Flags().Changed(RPCAuthKey) {
		config.RPC.Auth, err = cmd.Flags().GetString(RPCAuthKey)
		if err != nil {
			return fmt.Errorf("failed to get RPC auth: %w", err)
		}
	}

	if cmd.Flags().Changed(RPCCookieFileKey) {
		config.RPC.CookieFile, err = cmd.Flags().GetString(RPCCookieFileKey)
		if err != nil {
			return fmt.Errorf("failed to get RPC cookie file: %w", err)
		}
	}

	if cmd.Flags().Changed(RPCTimeoutKey) {
		config.RPC.Timeout, err = cmd.Flags().GetDuration(RPCTimeoutKey)
		if err != nil {
			return fmt.Errorf("failed to get RPC timeout: %w", err)
		}
	}

	if cmd.Flags().Changed(LogLevelKey) {
		level, err := cmd.Flags().GetString(LogLevelKey)
		if err != nil {
			return fmt.Errorf("failed to get log level: %w", err)
		}
		config.LogLevel = LogLevel(strings.ToLower(level))
	}

	if cmd.Flags().Changed(OutputKey) {
		output, err := cmd.Flags().GetString(OutputKey)
		if err != nil {
			return fmt.Errorf("failed to get output format: %w", err)
		}
		config.Output = OutputFormat(strings.ToLower(output))
	}

	if cmd.Flags().Changed(WatchIntervalKey) {
		config.Watch.Interval, err = cmd.Flags().GetDuration(WatchIntervalKey)
		if err != nil {
			return fmt.Errorf("failed to get watch interval: %w", err)
		}
	}

	if cmd.Flags().Changed(WatchMetricsHostKey) {
		config.Watch.Metrics.Host, err = cmd.Flags().GetString(WatchMetricsHostKey)
		if err != nil {
			return fmt.Errorf("failed to get metrics host: %w", err)
		}
	}

	if cmd.Flags().Changed(WatchMetricsPortKey) {
		config.Watch.Metrics.Port, err = cmd.Flags().GetUint16(WatchMetricsPortKey)
		if err != nil {
			return fmt.Errorf("failed to get metrics port: %w", err)
		}
	}

	if cmd.Flags().Changed(WatchMetricsPProfKey) {
		config.Watch.Metrics.PProf.Enabled, err = cmd.Flags().GetBool(WatchMetricsPProfKey)
		if err != nil {
			return fmt.Errorf("failed to get pprof enabled: %w", err)
		}
	}

	if cmd.Flags().Changed(WatchMetricsCORSHostsKey) {
		config.Watch.Metrics.CORSHosts, err = cmd.Flags().GetStringSlice(WatchMetricsCORSHostsKey)
		if err != nil {
			return fmt.Errorf("failed to get CORS hosts: %w", err)
		}
	}

	if cmd.Flags().Changed(WatchTracingEnabledKey) {
		config.Watch.Tracing.Enabled, err = cmd.Flags().GetBool(WatchTracingEnabledKey)
		if err != nil {
			return fmt.Errorf("failed to get tracing enabled: %w", err)
		}
	}

	if cmd.Flags().Changed(WatchTracingOTLPEndKey) {
		config.Watch.Tracing.OTLPEndpoint, err = cmd.Flags().GetString(WatchTracingOTLPEndKey)
		if err != nil {
			return fmt.Errorf("failed to get tracing OTLP endpoint: %w", err)
		}
	}

	return nil
}
