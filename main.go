package main

import (
	"log/slog"
	"os"

	"github.com/USA-RedDragon/zcash-rcli/cmd"
	"github.com/USA-RedDragon/zcash-rcli/internal/jsonrpc"
)

//nolint:golint,gochecknoglobals
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := cmd.NewCommand(version, commit)
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Encountered an error.", "error", err.Error(), "kind", jsonrpc.Kind(err))
		os.Exit(1)
	}
}
