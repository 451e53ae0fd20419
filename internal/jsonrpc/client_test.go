package jsonrpc_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/USA-RedDragon/zcash-rcli/internal/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

var (
	getBlockCount  = jsonrpc.Method0[uint64]{Name: "getblockcount"}
	getBlockHash   = jsonrpc.Method1[int64, string]{Name: "getblockhash"}
	getBlockHeader = jsonrpc.Method2[string, bool, map[string]any]{Name: "getblockheader"}
)

type recorder struct {
	mu       sync.Mutex
	requests []jsonrpc.RequestEnvelope
	headers  []http.Header
}

func (r *recorder) add(req jsonrpc.RequestEnvelope, header http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	r.headers = append(r.headers, header)
}

func (r *recorder) ids() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint64, 0, len(r.requests))
	for _, req := range r.requests {
		ids = append(ids, req.ID)
	}
	return ids
}

// newDaemon answers every request with reply(request).
func newDaemon(t *testing.T, reply func(req jsonrpc.RequestEnvelope) (int, string)) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		req, err := jsonrpc.ParseRequest(body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rec.add(req, r.Header.Clone())
		status, payload := reply(req)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestCallSendsEnvelopeAndAuth(t *testing.T) {
	t.Parallel()
	srv, rec := newDaemon(t, func(req jsonrpc.RequestEnvelope) (int, string) {
		return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":"0007bc227e1c57a4a70e237cad00e7b7ce565155ab49166bc57397a26d339283","error":null}`, req.ID)
	})
	client := jsonrpc.NewClient(srv.URL, "__cookie__:secret")

	hash, err := getBlockHash.Call(context.Background(), client, 1)
	require.NoError(t, err)
	assert.Equal(t, "0007bc227e1c57a4a70e237cad00e7b7ce565155ab49166bc57397a26d339283", hash)

	require.Len(t, rec.requests, 1)
	assert.Equal(t, "getblockhash", rec.requests[0].Method)
	require.Len(t, rec.requests[0].Params, 1)
	assert.JSONEq(t, `1`, string(rec.requests[0].Params[0]))
	assert.Equal(t, "Basic __cookie__:secret", rec.headers[0].Get("Authorization"))
}

func TestCallIDsStrictlyIncrease(t *testing.T) {
	t.Parallel()
	srv, rec := newDaemon(t, func(req jsonrpc.RequestEnvelope) (int, string) {
		return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":%d,"error":null}`, req.ID, 1000+req.ID)
	})
	client := jsonrpc.NewClient(srv.URL, "auth")

	for i := uint64(0); i < 10; i++ {
		count, err := getBlockCount.Call(context.Background(), client)
		require.NoError(t, err)
		assert.Equal(t, 1000+i, count)
	}
	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, rec.ids())
}

func TestClientsHaveIndependentIDs(t *testing.T) {
	t.Parallel()
	srv, rec := newDaemon(t, func(req jsonrpc.RequestEnvelope) (int, string) {
		return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":1,"error":null}`, req.ID)
	})
	a := jsonrpc.NewClient(srv.URL, "a")
	b := jsonrpc.NewClient(srv.URL, "b")

	_, err := getBlockCount.Call(context.Background(), a)
	require.NoError(t, err)
	_, err = getBlockCount.Call(context.Background(), a)
	require.NoError(t, err)
	_, err = getBlockCount.Call(context.Background(), b)
	require.NoError(t, err)

	assert.Equal(t, []uint64{0, 1, 0}, rec.ids())
}

func TestCallConcurrentIDsDistinct(t *testing.T) {
	t.Parallel()
	srv, rec := newDaemon(t, func(req jsonrpc.RequestEnvelope) (int, string) {
		return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":1,"error":null}`, req.ID)
	})
	client := jsonrpc.NewClient(srv.URL, "auth")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := getBlockCount.Call(context.Background(), client)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := map[uint64]struct{}{}
	for _, id := range rec.ids() {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 32)
}

func TestCallIgnoresHTTPStatus(t *testing.T) {
	t.Parallel()
	srv, _ := newDaemon(t, func(req jsonrpc.RequestEnvelope) (int, string) {
		return http.StatusNotFound, fmt.Sprintf(`{"id":%d,"result":null,"error":{"code":-32601,"message":"Method not found"}}`, req.ID)
	})
	client := jsonrpc.NewClient(srv.URL, "auth")

	_, err := getBlockHeader.Call(context.Background(), client, "00ab", true)
	var rpcErr *jsonrpc.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, jsonrpc.CodeMethodNotFound, rpcErr.Code)
	assert.Equal(t, "Method not found", rpcErr.Message)
}

func TestCallMismatchedID(t *testing.T) {
	t.Parallel()
	srv, _ := newDaemon(t, func(req jsonrpc.RequestEnvelope) (int, string) {
		return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":1,"error":null}`, req.ID+1)
	})
	client := jsonrpc.NewClient(srv.URL, "auth")

	_, err := getBlockCount.Call(context.Background(), client)
	var mismatch *jsonrpc.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, uint64(0), mismatch.Expected)
	assert.Equal(t, uint64(1), mismatch.Got)
}

func TestCallDecodeErrorNamesMethod(t *testing.T) {
	t.Parallel()
	srv, _ := newDaemon(t, func(req jsonrpc.RequestEnvelope) (int, string) {
		return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":"not a number","error":null}`, req.ID)
	})
	client := jsonrpc.NewClient(srv.URL, "auth")

	_, err := getBlockCount.Call(context.Background(), client)
	var decodeErr *jsonrpc.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "getblockcount", decodeErr.Method)
}

func TestCallTransportFailureConsumesID(t *testing.T) {
	t.Parallel()
	srv, rec := newDaemon(t, func(req jsonrpc.RequestEnvelope) (int, string) {
		return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":1,"error":null}`, req.ID)
	})
	client := jsonrpc.NewClient(srv.URL, "auth")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := getBlockCount.Call(ctx, client)
	var transportErr *jsonrpc.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "getblockcount", transportErr.Method)

	_, err = getBlockCount.Call(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, rec.ids())
}

func TestCallConnectionRefused(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := jsonrpc.NewClient(url, "auth", jsonrpc.WithHTTPClient(&http.Client{Timeout: time.Second}))
	_, err := getBlockCount.Call(context.Background(), client)
	assert.Equal(t, jsonrpc.KindTransport, jsonrpc.Kind(err))
}

func TestCallMalformedBody(t *testing.T) {
	t.Parallel()
	srv, _ := newDaemon(t, func(jsonrpc.RequestEnvelope) (int, string) {
		return http.StatusUnauthorized, ""
	})
	client := jsonrpc.NewClient(srv.URL, "wrong")

	_, err := getBlockCount.Call(context.Background(), client)
	var malformed *jsonrpc.MalformedError
	require.ErrorAs(t, err, &malformed)
}

type observation struct {
	method string
	kind   string
}

type fakeObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *fakeObserver) ObserveCall(method string, kind string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{method: method, kind: kind})
}

func TestCallReportsToObserver(t *testing.T) {
	t.Parallel()
	srv, _ := newDaemon(t, func(req jsonrpc.RequestEnvelope) (int, string) {
		if req.Method == "getblockhash" {
			return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":null,"error":{"code":-8,"message":"Block height out of range"}}`, req.ID)
		}
		return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":7,"error":null}`, req.ID)
	})
	observer := &fakeObserver{}
	client := jsonrpc.NewClient(srv.URL, "auth", jsonrpc.WithObserver(observer))

	_, err := getBlockCount.Call(context.Background(), client)
	require.NoError(t, err)
	_, err = getBlockHash.Call(context.Background(), client, 99999999)
	require.Error(t, err)

	assert.Equal(t, []observation{
		{method: "getblockcount", kind: "ok"},
		{method: "getblockhash", kind: jsonrpc.KindRPC},
	}, observer.seen)
}

func TestCallRecordsSpans(t *testing.T) {
	t.Parallel()
	srv, _ := newDaemon(t, func(req jsonrpc.RequestEnvelope) (int, string) {
		if req.Method == "getblockhash" {
			return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":null,"error":{"code":-8,"message":"Block height out of range"}}`, req.ID)
		}
		return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":7,"error":null}`, req.ID)
	})
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	client := jsonrpc.NewClient(srv.URL, "auth", jsonrpc.WithTracer(tp.Tracer("zcash-rcli")))

	_, err := getBlockCount.Call(context.Background(), client)
	require.NoError(t, err)
	_, err = getBlockHash.Call(context.Background(), client, 99999999)
	require.Error(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 2)

	ok := ended[0]
	assert.Equal(t, "getblockcount", ok.Name())
	assert.Equal(t, trace.SpanKindClient, ok.SpanKind())
	assert.Contains(t, ok.Attributes(), attribute.String("rpc.method", "getblockcount"))
	assert.Contains(t, ok.Attributes(), attribute.Int64("rpc.jsonrpc.request_id", 0))
	assert.Equal(t, codes.Unset, ok.Status().Code)

	failed := ended[1]
	assert.Equal(t, "getblockhash", failed.Name())
	assert.Contains(t, failed.Attributes(), attribute.Int64("rpc.jsonrpc.request_id", 1))
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Contains(t, failed.Status().Description, "Block height out of range")
	require.Len(t, failed.Events(), 1)
	assert.Equal(t, "exception", failed.Events()[0].Name)
}

func TestCallTracerProviderOption(t *testing.T) {
	t.Parallel()
	srv, _ := newDaemon(t, func(req jsonrpc.RequestEnvelope) (int, string) {
		return http.StatusOK, fmt.Sprintf(`{"id":%d,"result":7,"error":null}`, req.ID)
	})
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	client := jsonrpc.NewClient(srv.URL, "auth", jsonrpc.WithTracerProvider(tp))

	_, err := getBlockCount.Call(context.Background(), client)
	require.NoError(t, err)
	require.Len(t, spans.Ended(), 1)
	assert.Equal(t, "github.com/USA-RedDragon/zcash-rcli/internal/jsonrpc", spans.Ended()[0].InstrumentationScope().Name)
}
