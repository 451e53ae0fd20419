package jsonrpc

import (
	"math"
	"sync/atomic"
)

// IDGenerator hands out request ids 0, 1, 2, ... and never repeats one. The
// zero value is ready to use and safe for concurrent callers.
type IDGenerator struct {
	next atomic.Uint64
}

// Next returns a fresh id. Running out of ids is an unrecoverable invariant
// violation and panics rather than wrapping around.
func (g *IDGenerator) Next() uint64 {
	for {
		cur := g.next.Load()
		if cur == math.MaxUint64 {
			panic("jsonrpc: request ids exhausted")
		}
		if g.next.CompareAndSwap(cur, cur+1) {
			return cur
		}
	}
}
