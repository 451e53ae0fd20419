package zcash

import (
	"fmt"
	"os"

	"github.com/USA-RedDragon/zcash-rcli/internal/jsonrpc"
)

// Environment variables read by FromEnv.
const (
	HostEnvVar = "ZCASHRPC_HOST"
	AuthEnvVar = "ZCASHRPC_AUTH"
)

// Client talks to one zcashd RPC server. Every method issues exactly one
// request; a Client may be shared between goroutines.
type Client struct {
	rpc *jsonrpc.Client
}

// New returns a Client for hostport, a host or IP with an optional ":PORT".
// authCookie is sent verbatim after "Basic " and is typically the contents of
// ~/.zcash/.cookie. New does no I/O.
func New(hostport string, authCookie string, opts ...jsonrpc.Option) *Client {
	return &Client{
		rpc: jsonrpc.NewClient(fmt.Sprintf("http://%s/", hostport), authCookie, opts...),
	}
}

// FromEnv is New with its arguments taken from ZCASHRPC_HOST and
// ZCASHRPC_AUTH.
func FromEnv(opts ...jsonrpc.Option) (*Client, error) {
	host, ok := os.LookupEnv(HostEnvVar)
	if !ok {
		return nil, &jsonrpc.EnvironmentError{Variable: HostEnvVar}
	}
	auth, ok := os.LookupEnv(AuthEnvVar)
	if !ok {
		return nil, &jsonrpc.EnvironmentError{Variable: AuthEnvVar}
	}
	return New(host, auth, opts...), nil
}

func (c *Client) URL() string {
	return c.rpc.URL()
}
