package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/USA-RedDragon/zcash-rcli/internal/zcash"
	"github.com/spf13/cobra"
)

type methodFunc func(ctx context.Context, client *zcash.Client, args []string) (any, error)

func newMethodCommands() []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "getinfo",
			Short: "General node and wallet state",
			Args:  cobra.NoArgs,
			RunE: runMethod(func(ctx context.Context, client *zcash.Client, _ []string) (any, error) {
				return client.GetInfo(ctx)
			}),
		},
		{
			Use:   "getblockchaininfo",
			Short: "State of block chain processing",
			Args:  cobra.NoArgs,
			RunE: runMethod(func(ctx context.Context, client *zcash.Client, _ []string) (any, error) {
				return client.GetBlockChainInfo(ctx)
			}),
		},
		{
			Use:   "getblockcount",
			Short: "Height of the best chain",
			Args:  cobra.NoArgs,
			RunE: runMethod(func(ctx context.Context, client *zcash.Client, _ []string) (any, error) {
				return client.GetBlockCount(ctx)
			}),
		},
		{
			Use:   "getbestblockhash",
			Short: "Hash of the best chain tip",
			Args:  cobra.NoArgs,
			RunE: runMethod(func(ctx context.Context, client *zcash.Client, _ []string) (any, error) {
				return client.GetBestBlockHash(ctx)
			}),
		},
		{
			Use:   "getblockhash <height>",
			Short: "Hash of the best-chain block at height",
			Args:  cobra.ExactArgs(1),
			RunE: runMethod(func(ctx context.Context, client *zcash.Client, args []string) (any, error) {
				height, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return nil, fmt.Errorf("invalid height %q: %w", args[0], err)
				}
				return client.GetBlockHash(ctx, height)
			}),
		},
		{
			Use:   "getblockheader <hash> [verbose]",
			Short: "Header of the block with the given hash",
			Args:  cobra.RangeArgs(1, 2),
			RunE: runMethod(func(ctx context.Context, client *zcash.Client, args []string) (any, error) {
				verbose := true
				if len(args) > 1 {
					var err error
					verbose, err = strconv.ParseBool(args[1])
					if err != nil {
						return nil, fmt.Errorf("invalid verbose flag %q: %w", args[1], err)
					}
				}
				if !verbose {
					return client.GetBlockHeaderHex(ctx, args[0])
				}
				return client.GetBlockHeader(ctx, args[0])
			}),
		},
		{
			Use:   "getdifficulty",
			Short: "Proof-of-work difficulty",
			Args:  cobra.NoArgs,
			RunE: runMethod(func(ctx context.Context, client *zcash.Client, _ []string) (any, error) {
				return client.GetDifficulty(ctx)
			}),
		},
		{
			Use:   "getconnectioncount",
			Short: "Number of peer connections",
			Args:  cobra.NoArgs,
			RunE: runMethod(func(ctx context.Context, client *zcash.Client, _ []string) (any, error) {
				return client.GetConnectionCount(ctx)
			}),
		},
		{
			Use:   "z_gettotalbalance [minconf] [includeWatchonly]",
			Short: "Wallet balance by pool",
			Args:  cobra.MaximumNArgs(2),
			RunE: runMethod(func(ctx context.Context, client *zcash.Client, args []string) (any, error) {
				minConf := 1
				includeWatchOnly := false
				var err error
				if len(args) > 0 {
					minConf, err = strconv.Atoi(args[0])
					if err != nil {
						return nil, fmt.Errorf("invalid minconf %q: %w", args[0], err)
					}
				}
				if len(args) > 1 {
					includeWatchOnly, err = strconv.ParseBool(args[1])
					if err != nil {
						return nil, fmt.Errorf("invalid includeWatchonly %q: %w", args[1], err)
					}
				}
				return client.ZGetTotalBalance(ctx, minConf, includeWatchOnly)
			}),
		},
	}
}

func runMethod(call methodFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client, err := newClient(cfg)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		result, err := call(cmd.Context(), client, args)
		if err != nil {
			return fmt.Errorf("%s failed: %w", cmd.Name(), err)
		}

		return render(cmd.OutOrStdout(), cfg.Output, result)
	}
}
