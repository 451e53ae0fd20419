package zcash

import (
	"context"

	"github.com/USA-RedDragon/zcash-rcli/internal/jsonrpc"
)

// The zcashd methods this client speaks. Each entry fixes the wire name, the
// positional parameter types and the response schema; the Client methods
// below are the typed entry points callers use.
var (
	GetInfo            = jsonrpc.Method0[GetInfoResponse]{Name: "getinfo"}
	GetBlockChainInfo  = jsonrpc.Method0[GetBlockChainInfoResponse]{Name: "getblockchaininfo"}
	GetBlockCount      = jsonrpc.Method0[uint64]{Name: "getblockcount"}
	GetBestBlockHash   = jsonrpc.Method0[string]{Name: "getbestblockhash"}
	GetBlockHash       = jsonrpc.Method1[int64, string]{Name: "getblockhash"}
	GetBlockHeader     = jsonrpc.Method2[string, bool, BlockHeader]{Name: "getblockheader"}
	GetBlockHeaderHex  = jsonrpc.Method2[string, bool, string]{Name: "getblockheader"}
	GetDifficulty      = jsonrpc.Method0[float64]{Name: "getdifficulty"}
	GetConnectionCount = jsonrpc.Method0[uint64]{Name: "getconnectioncount"}
	ZGetTotalBalance   = jsonrpc.Method2[int, bool, TotalBalance]{Name: "z_gettotalbalance"}
)

// GetInfo returns general node and wallet state.
func (c *Client) GetInfo(ctx context.Context) (GetInfoResponse, error) {
	return GetInfo.Call(ctx, c.rpc)
}

// GetBlockChainInfo returns the state of block chain processing.
func (c *Client) GetBlockChainInfo(ctx context.Context) (GetBlockChainInfoResponse, error) {
	return GetBlockChainInfo.Call(ctx, c.rpc)
}

// GetBlockCount returns the height of the best chain.
func (c *Client) GetBlockCount(ctx context.Context) (uint64, error) {
	return GetBlockCount.Call(ctx, c.rpc)
}

func (c *Client) GetBestBlockHash(ctx context.Context) (string, error) {
	return GetBestBlockHash.Call(ctx, c.rpc)
}

// GetBlockHash returns the hash of the best-chain block at height.
func (c *Client) GetBlockHash(ctx context.Context, height int64) (string, error) {
	return GetBlockHash.Call(ctx, c.rpc, height)
}

// GetBlockHeader returns the decoded header of the block with the given hash.
func (c *Client) GetBlockHeader(ctx context.Context, hash string) (BlockHeader, error) {
	return GetBlockHeader.Call(ctx, c.rpc, hash, true)
}

// GetBlockHeaderHex returns the serialized header, hex encoded.
func (c *Client) GetBlockHeaderHex(ctx context.Context, hash string) (string, error) {
	return GetBlockHeaderHex.Call(ctx, c.rpc, hash, false)
}

func (c *Client) GetDifficulty(ctx context.Context) (float64, error) {
	return GetDifficulty.Call(ctx, c.rpc)
}

func (c *Client) GetConnectionCount(ctx context.Context) (uint64, error) {
	return GetConnectionCount.Call(ctx, c.rpc)
}

// ZGetTotalBalance returns the wallet balance counting only notes and outputs
// with at least minConf confirmations.
func (c *Client) ZGetTotalBalance(ctx context.Context, minConf int, includeWatchOnly bool) (TotalBalance, error) {
	return ZGetTotalBalance.Call(ctx, c.rpc, minConf, includeWatchOnly)
}
