package jsonrpc

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// Version is the protocol version stamped on every request. zcashd, like
// bitcoind, speaks the 1.0 dialect: both result and error are always present
// in a response and the unused one is null.
const Version = "1.0"

// RequestEnvelope is the wire shape of one call.
type RequestEnvelope struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      uint64            `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// ResponseEnvelope is a parsed reply. A nil ID, Result or Error means the
// field was absent or null on the wire.
type ResponseEnvelope struct {
	ID     *uint64
	Result json.RawMessage
	Error  *RPCError
}

// Wrap serializes a request. Params are positional and emitted as-is; nil
// params are sent as an empty array.
func Wrap(id uint64, method string, params []json.RawMessage) ([]byte, error) {
	if params == nil {
		params = []json.RawMessage{}
	}
	return json.Marshal(RequestEnvelope{
		JSONRPC: Version,
		ID:      id,
		Method:  method,
		Params:  params,
	})
}

// ParseRequest is the inverse of Wrap.
func ParseRequest(raw []byte) (RequestEnvelope, error) {
	var req RequestEnvelope
	if err := json.Unmarshal(raw, &req); err != nil {
		return RequestEnvelope{}, &MalformedError{Reason: "invalid request envelope", Err: err}
	}
	if req.Method == "" {
		return RequestEnvelope{}, &MalformedError{Reason: "request has no method"}
	}
	if req.Params == nil {
		req.Params = []json.RawMessage{}
	}
	return req, nil
}

type rawResponse struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

type rawError struct {
	Code    *int    `json:"code"`
	Message *string `json:"message"`
}

// Parse decodes a response body into an envelope without interpreting it.
func Parse(raw []byte) (ResponseEnvelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ResponseEnvelope{}, &MalformedError{Reason: "empty response body"}
	}
	if trimmed[0] != '{' {
		return ResponseEnvelope{}, &MalformedError{Reason: "response is not a JSON object"}
	}

	var resp rawResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return ResponseEnvelope{}, &MalformedError{Reason: "invalid JSON", Err: err}
	}

	var env ResponseEnvelope
	if !isNull(resp.ID) {
		id, err := strconv.ParseUint(string(bytes.TrimSpace(resp.ID)), 10, 64)
		if err != nil {
			return ResponseEnvelope{}, &MalformedError{Reason: "id is not an unsigned integer", Err: err}
		}
		env.ID = &id
	}
	if !isNull(resp.Error) {
		var rerr rawError
		if trimmedErr := bytes.TrimSpace(resp.Error); trimmedErr[0] != '{' {
			return ResponseEnvelope{}, &MalformedError{Reason: "error is not an object"}
		}
		if err := json.Unmarshal(resp.Error, &rerr); err != nil {
			return ResponseEnvelope{}, &MalformedError{Reason: "error is not an object", Err: err}
		}
		if rerr.Code == nil || rerr.Message == nil {
			return ResponseEnvelope{}, &MalformedError{Reason: "error object lacks code or message"}
		}
		env.Error = &RPCError{Code: *rerr.Code, Message: *rerr.Message}
	}
	if !isNull(resp.Result) {
		env.Result = resp.Result
	}
	return env, nil
}

// Unwrap reconciles env against the request that produced it and decodes the
// result into T. The id is checked first since a foreign response says
// nothing trustworthy about this request; a populated error wins over a
// populated result.
func Unwrap[T any](env ResponseEnvelope, expectedID uint64) (T, error) {
	var out T
	if env.ID != nil && *env.ID != expectedID {
		return out, &MismatchError{Expected: expectedID, Got: *env.ID}
	}
	if env.Error != nil {
		return out, &RPCError{Code: env.Error.Code, Message: env.Error.Message}
	}
	if env.Result == nil {
		return out, &MalformedError{Reason: "response has neither result nor error"}
	}
	if err := decodeStrict(env.Result, &out); err != nil {
		var zero T
		return zero, &DecodeError{Err: err}
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
