package jsonrpc

import (
	"context"

	"github.com/goccy/go-json"
)

// A method descriptor binds a wire method name to the Go types of its
// positional parameters and its result. Declaring one is all it takes to add
// an RPC method:
//
//	var GetBlockHash = jsonrpc.Method1[int64, string]{Name: "getblockhash"}
//
//	hash, err := GetBlockHash.Call(ctx, client, 1000)
//
// Params exposes the exact positional arguments a call would send.

// Method0 is a method taking no parameters and returning R.
type Method0[R any] struct {
	Name string
}

func (m Method0[R]) Params() ([]json.RawMessage, error) {
	return marshalParams()
}

func (m Method0[R]) Call(ctx context.Context, c *Client) (R, error) {
	return call[R](ctx, c, m.Name)
}

// Method1 is a method taking one parameter of type A and returning R.
type Method1[A, R any] struct {
	Name string
}

func (m Method1[A, R]) Params(a A) ([]json.RawMessage, error) {
	return marshalParams(a)
}

func (m Method1[A, R]) Call(ctx context.Context, c *Client, a A) (R, error) {
	return call[R](ctx, c, m.Name, a)
}

// Method2 is a method taking parameters of types A and B and returning R.
type Method2[A, B, R any] struct {
	Name string
}

func (m Method2[A, B, R]) Params(a A, b B) ([]json.RawMessage, error) {
	return marshalParams(a, b)
}

func (m Method2[A, B, R]) Call(ctx context.Context, c *Client, a A, b B) (R, error) {
	return call[R](ctx, c, m.Name, a, b)
}

// Method3 is a method taking parameters of types A, B and C and returning R.
type Method3[A, B, C, R any] struct {
	Name string
}

func (m Method3[A, B, C, R]) Params(a A, b B, c C) ([]json.RawMessage, error) {
	return marshalParams(a, b, c)
}

func (m Method3[A, B, C, R]) Call(ctx context.Context, client *Client, a A, b B, c C) (R, error) {
	return call[R](ctx, client, m.Name, a, b, c)
}
