// Package pipe provides an in-memory transport for exercising HTTP exchanges
// without sockets.
package pipe

import (
	"sync"
	"time"

	"http-req/transport"

	"github.com/benbjohnson/clock"
)

// Conn is one end of a synchronous, unbuffered in-memory stream.
// A Write returns only after the peer has consumed every byte.
type Conn struct {
	incoming chan []byte // chunks offered by the peer.
	consumed chan int    // peer's read counts for our offered chunks.

	writeMu sync.Mutex

	closed    chan struct{}
	closeOnce sync.Once

	readDeadLine  *deadLine
	writeDeadLine *deadLine

	peer *Conn
}

var _ transport.Conn = (*Conn)(nil)

// Pair creates two connected ends. Deadlines are measured on clk.
func Pair(clk clock.Clock) (c1, c2 *Conn) {
	if clk == nil {
		clk = clock.New()
	}
	c1, c2 = newConn(clk), newConn(clk)
	c1.peer, c2.peer = c2, c1
	return c1, c2
}

func newConn(clk clock.Clock) *Conn {
	return &Conn{
		incoming:      make(chan []byte),
		consumed:      make(chan int),
		closed:        make(chan struct{}),
		readDeadLine:  newDeadLine(clk),
		writeDeadLine: newDeadLine(clk),
	}
}

// Close closes this end. Both ends observe [transport.ErrConnClosed] afterwards.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *Conn) Read(b []byte) (int, error) {
	if err := c.check(c.readDeadLine); err != nil {
		return 0, err
	}

	select {
	case chunk := <-c.incoming:
		n := copy(b, chunk)
		c.peer.consumed <- n
		return n, nil
	case <-c.closed:
		return 0, transport.ErrConnClosed
	case <-c.peer.closed:
		return 0, transport.ErrConnClosed
	case <-c.readDeadLine.wait():
		return 0, transport.ErrDeadLineExceeded
	}
}

func (c *Conn) Write(b []byte) (int, error) {
	if err := c.check(c.writeDeadLine); err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}

	// Concurrent writers must not interleave their chunks.
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	written := 0
	for len(b) > 0 {
		select {
		case c.peer.incoming <- b:
			n := <-c.consumed
			b = b[n:]
			written += n
		case <-c.closed:
			return written, transport.ErrConnClosed
		case <-c.peer.closed:
			return written, transport.ErrConnClosed
		case <-c.writeDeadLine.wait():
			return written, transport.ErrDeadLineExceeded
		}
	}
	return written, nil
}

func (c *Conn) check(d *deadLine) error {
	switch {
	case fired(c.closed), fired(c.peer.closed):
		return transport.ErrConnClosed
	case fired(d.wait()):
		return transport.ErrDeadLineExceeded
	}
	return nil
}

func (c *Conn) SetReadDeadLine(t time.Time)  { c.readDeadLine.set(t) }
func (c *Conn) SetWriteDeadLine(t time.Time) { c.writeDeadLine.set(t) }

// deadLine closes its channel once the configured instant passes.
type deadLine struct {
	clock clock.Clock

	mu     sync.Mutex
	timer  *clock.Timer
	expire chan struct{}
}

func newDeadLine(clk clock.Clock) *deadLine {
	return &deadLine{clock: clk, expire: make(chan struct{})}
}

func (d *deadLine) set(t time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil && !d.timer.Stop() {
		// Already fired.
		d.expire = make(chan struct{})
	}
	d.timer = nil

	if fired(d.expire) {
		d.expire = make(chan struct{})
	}
	if t.IsZero() {
		return
	}

	wait := d.clock.Until(t)
	if wait <= 0 {
		close(d.expire)
		return
	}

	expire := d.expire
	d.timer = d.clock.AfterFunc(wait, func() { close(expire) })
}

func (d *deadLine) wait() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.expire
}

func fired(c <-chan struct{}) bool {
	select {
	case <-c:
		return true
	default:
		return false
	}
}
