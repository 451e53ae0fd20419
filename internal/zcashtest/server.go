// Package zcashtest provides an in-process stand-in for a zcashd RPC server.
package zcashtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/USA-RedDragon/zcash-rcli/internal/jsonrpc"
	"github.com/goccy/go-json"
	"github.com/puzpuzpuz/xsync/v3"
)

// Handler answers one call. Returning a non-nil *jsonrpc.RPCError sends it as
// the error member with a null result.
type Handler func(params []json.RawMessage) (any, *jsonrpc.RPCError)

// RawHandler writes the whole response body itself, for replies a
// well-behaved daemon would never send.
type RawHandler func(req jsonrpc.RequestEnvelope) string

type reply struct {
	Result any               `json:"result"`
	Error  *jsonrpc.RPCError `json:"error"`
	ID     uint64            `json:"id"`
}

type Server struct {
	*httptest.Server
	credential string

	handlers    *xsync.MapOf[string, Handler]
	rawHandlers *xsync.MapOf[string, RawHandler]
	calls       *xsync.Counter

	mu       sync.Mutex
	requests []jsonrpc.RequestEnvelope
}

// NewServer starts a daemon that only accepts "Basic <credential>" and knows
// no methods. It is closed when the test ends.
func NewServer(tb testing.TB, credential string) *Server {
	tb.Helper()
	s := &Server{
		credential:  credential,
		handlers:    xsync.NewMapOf[string, Handler](),
		rawHandlers: xsync.NewMapOf[string, RawHandler](),
		calls:       xsync.NewCounter(),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	tb.Cleanup(s.Close)
	return s
}

// NewDaemon is NewServer with every fixture method registered.
func NewDaemon(tb testing.TB, credential string) *Server {
	tb.Helper()
	s := NewServer(tb, credential)
	for method, result := range Fixtures {
		s.HandleResult(method, json.RawMessage(result))
	}
	return s
}

func (s *Server) Handle(method string, h Handler) {
	s.rawHandlers.Delete(method)
	s.handlers.Store(method, h)
}

// HandleResult answers method with a fixed result.
func (s *Server) HandleResult(method string, result any) {
	s.Handle(method, func([]json.RawMessage) (any, *jsonrpc.RPCError) {
		return result, nil
	})
}

func (s *Server) HandleRaw(method string, h RawHandler) {
	s.handlers.Delete(method)
	s.rawHandlers.Store(method, h)
}

// HostPort is the address to hand to zcash.New.
func (s *Server) HostPort() string {
	return strings.TrimPrefix(s.URL, "http://")
}

// Requests returns every authenticated request received so far, in arrival
// order.
func (s *Server) Requests() []jsonrpc.RequestEnvelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]jsonrpc.RequestEnvelope(nil), s.requests...)
}

// Calls counts every request that reached the server, authenticated or not.
func (s *Server) Calls() int64 {
	return s.calls.Value()
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.calls.Inc()

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	// zcashd answers bad credentials with an empty 401.
	if r.Header.Get("Authorization") != "Basic "+s.credential {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	req, err := jsonrpc.ParseRequest(body)
	if err != nil {
		s.write(w, http.StatusInternalServerError, reply{
			Error: &jsonrpc.RPCError{Code: jsonrpc.CodeParseError, Message: "Parse error"},
		})
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if raw, ok := s.rawHandlers.Load(req.Method); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, raw(req))
		return
	}

	h, ok := s.handlers.Load(req.Method)
	if !ok {
		s.write(w, http.StatusNotFound, reply{
			ID:    req.ID,
			Error: &jsonrpc.RPCError{Code: jsonrpc.CodeMethodNotFound, Message: "Method not found"},
		})
		return
	}

	result, rpcErr := h(req.Params)
	if rpcErr != nil {
		s.write(w, http.StatusInternalServerError, reply{ID: req.ID, Error: rpcErr})
		return
	}
	s.write(w, http.StatusOK, reply{ID: req.ID, Result: result})
}

func (s *Server) write(w http.ResponseWriter, status int, body reply) {
	b, err := json.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
