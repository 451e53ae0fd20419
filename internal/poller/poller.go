// Package poller periodically samples zcashd chain state for the watch
// command.
package poller

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/USA-RedDragon/zcash-rcli/internal/zcash"
	"github.com/go-errors/errors"
	"golang.org/x/sync/errgroup"
)

var ErrNotPolled = errors.New("no poll has completed yet")

type Client interface {
	GetBlockChainInfo(ctx context.Context) (zcash.GetBlockChainInfoResponse, error)
	GetInfo(ctx context.Context) (zcash.GetInfoResponse, error)
}

type Observer interface {
	ObserveChainInfo(info zcash.GetBlockChainInfoResponse)
	ObserveInfo(info zcash.GetInfoResponse)
}

type result struct {
	err error
}

type Poller struct {
	client   Client
	observer Observer
	last     atomic.Pointer[result]
	polls    atomic.Uint64
}

func New(client Client, observer Observer) *Poller {
	return &Poller{
		client:   client,
		observer: observer,
	}
}

// Poll fetches getblockchaininfo and getinfo concurrently and hands both to
// the observer. The first error wins and is remembered for Healthy.
func (p *Poller) Poll(ctx context.Context) error {
	var (
		chainInfo zcash.GetBlockChainInfoResponse
		info      zcash.GetInfoResponse
	)
	errGrp, ctx := errgroup.WithContext(ctx)
	errGrp.Go(func() error {
		var err error
		chainInfo, err = p.client.GetBlockChainInfo(ctx)
		return err
	})
	errGrp.Go(func() error {
		var err error
		info, err = p.client.GetInfo(ctx)
		return err
	})
	err := errGrp.Wait()
	p.last.Store(&result{err: err})
	p.polls.Add(1)
	if err != nil {
		return err
	}

	p.observer.ObserveChainInfo(chainInfo)
	p.observer.ObserveInfo(info)
	slog.Debug("Polled zcashd", "blocks", chainInfo.Blocks, "headers", chainInfo.Headers, "connections", info.Connections)
	return nil
}

// Run polls immediately and then every interval until ctx is done. Poll
// errors are logged, never returned.
func (p *Poller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := p.Poll(ctx); err != nil && ctx.Err() == nil {
			slog.Warn("Failed to poll zcashd", "error", err.Error())
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Healthy returns the error of the most recent poll.
func (p *Poller) Healthy() error {
	last := p.last.Load()
	if last == nil {
		return ErrNotPolled
	}
	return last.err
}

func (p *Poller) Polls() uint64 {
	return p.polls.Load()
}
