package rpcclient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// conn is a pooled connection slot. The slot carries an identity so that
// logs can correlate requests going through the same slot.
type conn struct {
	id uuid.UUID
}

// connPool is a fixed-size pool of connection slots. Acquire blocks up to
// the wait timeout when all slots are busy.
type connPool struct {
	free        chan *conn
	waitTimeout time.Duration
}

func newConnPool(size int, waitTimeout time.Duration) *connPool {
	p := &connPool{
		free:        make(chan *conn, size),
		waitTimeout: waitTimeout,
	}
	for i := 0; i < size; i++ {
		p.free <- &conn{id: uuid.New()}
	}
	return p
}

// Acquire takes a free slot, waiting up to the pool's timeout for one to be
// released. It fails with PoolExhaustedError on timeout and with the
// context's error if ctx is done first.
func (p *connPool) Acquire(ctx context.Context) (*conn, error) {
	select {
	case c := <-p.free:
		return c, nil
	default:
	}
	timer := time.NewTimer(p.waitTimeout)
	defer timer.Stop()
	select {
	case c := <-p.free:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, &PoolExhaustedError{WaitTimeout: p.waitTimeout}
	}
}

// Release puts the slot back. Releasing a slot twice is a no-op rather than
// a deadlock.
func (p *connPool) Release(c *conn) {
	select {
	case p.free <- c:
	default:
	}
}
