package poller_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/USA-RedDragon/zcash-rcli/internal/jsonrpc"
	"github.com/USA-RedDragon/zcash-rcli/internal/poller"
	"github.com/USA-RedDragon/zcash-rcli/internal/zcash"
	"github.com/USA-RedDragon/zcash-rcli/internal/zcashtest"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu        sync.Mutex
	chainInfo []zcash.GetBlockChainInfoResponse
	info      []zcash.GetInfoResponse
}

func (r *recorder) ObserveChainInfo(info zcash.GetBlockChainInfoResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chainInfo = append(r.chainInfo, info)
}

func (r *recorder) ObserveInfo(info zcash.GetInfoResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.info = append(r.info, info)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chainInfo)
}

func TestPoll(t *testing.T) {
	t.Parallel()
	daemon := zcashtest.NewDaemon(t, "user:pass")
	rec := &recorder{}
	p := poller.New(zcash.New(daemon.HostPort(), "user:pass"), rec)

	require.ErrorIs(t, p.Healthy(), poller.ErrNotPolled)
	require.NoError(t, p.Poll(context.Background()))
	require.NoError(t, p.Healthy())

	require.Len(t, rec.chainInfo, 1)
	assert.Equal(t, uint64(12345), rec.chainInfo[0].Blocks)
	require.Len(t, rec.info, 1)
	assert.Equal(t, uint64(8), rec.info[0].Connections)
	assert.Equal(t, uint64(1), p.Polls())
}

func TestPollFailure(t *testing.T) {
	t.Parallel()
	daemon := zcashtest.NewDaemon(t, "user:pass")
	daemon.Handle("getinfo", func([]json.RawMessage) (any, *jsonrpc.RPCError) {
		return nil, &jsonrpc.RPCError{Code: jsonrpc.CodeInWarmup, Message: "Loading block index..."}
	})
	rec := &recorder{}
	p := poller.New(zcash.New(daemon.HostPort(), "user:pass"), rec)

	err := p.Poll(context.Background())
	var rpcErr *jsonrpc.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, jsonrpc.CodeInWarmup, rpcErr.Code)
	assert.Equal(t, err, p.Healthy())
	assert.Zero(t, rec.count())
}

func TestRun(t *testing.T) {
	t.Parallel()
	daemon := zcashtest.NewDaemon(t, "user:pass")
	rec := &recorder{}
	p := poller.New(zcash.New(daemon.HostPort(), "user:pass"), rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool { return rec.count() >= 3 }, 5*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.GreaterOrEqual(t, p.Polls(), uint64(3))
}
