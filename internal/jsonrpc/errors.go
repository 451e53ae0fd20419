package jsonrpc

import (
	"errors"
	"fmt"
)

// Well-known server error codes shared by bitcoind-derived daemons.
const (
	CodeInvalidRequest   = -32600
	CodeMethodNotFound   = -32601
	CodeInvalidParams    = -32602
	CodeInternalError    = -32603
	CodeParseError       = -32700
	CodeMiscError        = -1
	CodeTypeError        = -3
	CodeInvalidAddress   = -5
	CodeInvalidParameter = -8
	CodeInWarmup         = -28
)

// EnvironmentError reports a bootstrap variable that was not set.
type EnvironmentError struct {
	Variable string
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.Variable)
}

// TransportError wraps a failure to deliver a request or read its response.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure calling %s: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedError reports a response body that is not a usable JSON-RPC envelope.
type MalformedError struct {
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// MismatchError reports a response whose id belongs to another request.
type MismatchError struct {
	Expected uint64
	Got      uint64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("response id %d does not match request id %d", e.Got, e.Expected)
}

// RPCError is an application-level failure reported by the server.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// DecodeError reports a result that does not fit the method's response schema.
type DecodeError struct {
	Method string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("failed to decode result: %v", e.Err)
	}
	return fmt.Sprintf("failed to decode %s result: %v", e.Method, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Error kinds as returned by Kind.
const (
	KindEnvironment = "environment"
	KindTransport   = "transport"
	KindMalformed   = "malformed"
	KindMismatch    = "mismatch"
	KindRPC         = "rpc"
	KindDecode      = "decode"
	KindOther       = "other"
)

// Kind classifies err into one of the Kind* labels. A nil error is "ok".
func Kind(err error) string {
	if err == nil {
		return "ok"
	}
	var (
		envErr       *EnvironmentError
		transportErr *TransportError
		malformedErr *MalformedError
		mismatchErr  *MismatchError
		rpcErr       *RPCError
		decodeErr    *DecodeError
	)
	switch {
	case errors.As(err, &mismatchErr):
		return KindMismatch
	case errors.As(err, &rpcErr):
		return KindRPC
	case errors.As(err, &decodeErr):
		return KindDecode
	case errors.As(err, &malformedErr):
		return KindMalformed
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &envErr):
		return KindEnvironment
	default:
		return KindOther
	}
}
