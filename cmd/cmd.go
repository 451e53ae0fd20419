package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/USA-RedDragon/zcash-rcli/internal/config"
	"github.com/USA-RedDragon/zcash-rcli/internal/jsonrpc"
	"github.com/USA-RedDragon/zcash-rcli/internal/zcash"
	"github.com/spf13/cobra"
)

func NewCommand(version, commit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "zcash-rcli",
		Short:   "Typed command-line client for the zcashd JSON-RPC API",
		Version: fmt.Sprintf("%s - %s", version, commit),
		Annotations: map[string]string{
			"version": version,
			"commit":  commit,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.RegisterFlags(cmd)

	cmd.AddCommand(newVersionCommand())
	cmd.AddCommand(newWatchCommand())
	cmd.AddCommand(newMethodCommands()...)
	return cmd
}

// loadConfig loads and validates the configuration and installs the default
// logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	return cfg, nil
}

// newClient connects to rpc.host when it is configured and otherwise falls
// back to ZCASHRPC_HOST and ZCASHRPC_AUTH.
func newClient(cfg *config.Config, opts ...jsonrpc.Option) (*zcash.Client, error) {
	opts = append([]jsonrpc.Option{
		jsonrpc.WithHTTPClient(&http.Client{Timeout: cfg.RPC.Timeout}),
	}, opts...)

	hostport := cfg.HostPort()
	if hostport == "" {
		client, err := zcash.FromEnv(opts...)
		if err != nil {
			return nil, fmt.Errorf("no rpc.host configured: %w", err)
		}
		slog.Debug("Using zcashd from environment", "url", client.URL())
		return client, nil
	}

	credential, err := cfg.Credential()
	if err != nil {
		return nil, err
	}
	client := zcash.New(hostport, credential, opts...)
	slog.Debug("Using zcashd", "url", client.URL())
	return client, nil
}
