package pipe

import (
	"context"
	"sync"

	"http-req/transport"

	"github.com/benbjohnson/clock"
)

type dialRequest struct {
	conn     *Conn
	accepted chan struct{}
}

// Transport routes dials to listeners registered on the same Transport.
type Transport struct {
	clock clock.Clock

	mu        sync.Mutex
	listeners map[transport.Addr]*Listener
}

var _ transport.ConnDialer = (*Transport)(nil)

func NewTransport(clk clock.Clock) *Transport {
	if clk == nil {
		clk = clock.New()
	}
	return &Transport{
		clock:     clk,
		listeners: make(map[transport.Addr]*Listener),
	}
}

func (t *Transport) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	t.mu.Lock()
	lis, ok := t.listeners[addr]
	t.mu.Unlock()

	if !ok {
		return nil, transport.ErrConnRefused
	}

	local, remote := Pair(t.clock)
	req := dialRequest{conn: remote, accepted: make(chan struct{})}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-lis.closed:
		return nil, transport.ErrConnRefused
	case lis.requests <- req:
	}

	select {
	case <-ctx.Done():
		_ = local.Close()
		return nil, ctx.Err()
	case <-lis.closed:
		return nil, transport.ErrConnRefused
	case <-req.accepted:
	}

	return local, nil
}

func (t *Transport) Listen(addr transport.Addr) (*Listener, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.listeners[addr]; ok {
		return nil, transport.ErrAddrAlreadyInUse
	}

	lis := &Listener{
		addr:      addr,
		transport: t,
		requests:  make(chan dialRequest),
		closed:    make(chan struct{}),
	}
	t.listeners[addr] = lis

	return lis, nil
}

type Listener struct {
	addr      transport.Addr
	transport *Transport

	requests  chan dialRequest
	closed    chan struct{}
	closeOnce sync.Once
}

var _ transport.ConnListener = (*Listener)(nil)

func (l *Listener) Addr() transport.Addr { return l.addr }

func (l *Listener) Accept(ctx context.Context) (transport.Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.closed:
		return nil, transport.ErrConnListenerClosed
	case req := <-l.requests:
		close(req.accepted)
		return req.conn, nil
	}
}

func (l *Listener) Close() error {
	err := transport.ErrConnListenerClosed
	l.closeOnce.Do(func() {
		close(l.closed)

		l.transport.mu.Lock()
		delete(l.transport.listeners, l.addr)
		l.transport.mu.Unlock()

		err = nil
	})
	return err
}
