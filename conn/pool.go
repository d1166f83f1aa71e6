package conn

import (
	"context"
	"sync"
)

// DefaultPoolCapacity is the idle connection limit per attached catalog.
const DefaultPoolCapacity = 8

// Pool is a bounded cache of idle Connections for one attach target.
// Acquire hands out exclusive ownership; Release returns it. The pool
// mutex guards only the idle slice, never a remote round trip.
type Pool struct {
	params   Parameters
	capacity int

	mu   sync.Mutex
	idle []*Connection
}

// NewPool creates an empty pool. capacity <= 0 selects DefaultPoolCapacity.
func NewPool(params Parameters, capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultPoolCapacity
	}
	return &Pool{params: params, capacity: capacity}
}

// Params returns the attach parameters the pool opens connections with.
func (p *Pool) Params() Parameters { return p.params }

// Acquire returns an idle Connection or opens a new one. The caller owns
// the Connection exclusively until Release.
func (p *Pool) Acquire(ctx context.Context) (*Connection, error) {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		c := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	return Open(ctx, p.params)
}

// Release returns a Connection to the idle set, or tears down its session
// when the pool is already at capacity. Passing nil is a no-op.
func (p *Pool) Release(c *Connection) {
	if c == nil {
		return
	}
	p.mu.Lock()
	if len(p.idle) < p.capacity {
		p.idle = append(p.idle, c)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	c.Close()
}

// Clear closes every idle Connection. Connections currently held by
// callers are unaffected until released.
func (p *Pool) Clear() {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, c := range idle {
		c.Close()
	}
}

// IdleCount reports the number of idle connections.
func (p *Pool) IdleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
