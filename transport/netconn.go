package transport

import (
	"context"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
)

// deadlineError keeps the original cause of a timeout while matching
// [ErrDeadLineExceeded]. It also satisfies net.Error.
type deadlineError struct{ cause error }

func (e *deadlineError) Error() string {
	if e.cause == nil {
		return ErrDeadLineExceeded.Error()
	}
	return ErrDeadLineExceeded.Error() + ": " + e.cause.Error()
}

func (e *deadlineError) Is(target error) bool {
	return target == ErrDeadLineExceeded || target == os.ErrDeadlineExceeded
}

func (e *deadlineError) Unwrap() error   { return e.cause }
func (e *deadlineError) Timeout() bool   { return true }
func (e *deadlineError) Temporary() bool { return true }

// MapNetError translates errors of the net package (and context deadlines)
// into this package's errors. io.EOF is kept as is.
func MapNetError(err error) error {
	if err == nil || err == io.EOF {
		return err
	}

	if errors.Is(err, ErrDeadLineExceeded) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &deadlineError{cause: err}
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &deadlineError{cause: err}
	}

	if errors.Is(err, net.ErrClosed) {
		return errors.Wrap(ErrConnClosed, err.Error())
	}

	return err
}

// FromNetConn adapts c into a [Conn].
func FromNetConn(c net.Conn) Conn { return &netConn{c: c} }

type netConn struct{ c net.Conn }

var _ Conn = (*netConn)(nil)

func (n *netConn) Read(p []byte) (int, error) {
	nn, err := n.c.Read(p)
	return nn, MapNetError(err)
}

func (n *netConn) Write(p []byte) (int, error) {
	nn, err := n.c.Write(p)
	return nn, MapNetError(err)
}

func (n *netConn) Close() error                 { return n.c.Close() }
func (n *netConn) SetReadDeadLine(t time.Time)  { _ = n.c.SetReadDeadline(t) }
func (n *netConn) SetWriteDeadLine(t time.Time) { _ = n.c.SetWriteDeadline(t) }

// NetConn returns c as a net.Conn, for libraries that need one.
// Conns created by [FromNetConn] give back the original.
func NetConn(c Conn) net.Conn {
	if n, ok := c.(*netConn); ok {
		return n.c
	}
	return &connAdapter{c: c}
}

type connAddr struct{}

func (connAddr) Network() string { return "transport" }
func (connAddr) String() string  { return "transport" }

type connAdapter struct{ c Conn }

var _ net.Conn = (*connAdapter)(nil)

func (a *connAdapter) Read(p []byte) (int, error) {
	n, err := a.c.Read(p)
	if IsClosed(err) {
		return n, io.EOF
	}
	return n, wrapDeadline(err)
}

func (a *connAdapter) Write(p []byte) (int, error) {
	n, err := a.c.Write(p)
	return n, wrapDeadline(err)
}

func (a *connAdapter) Close() error         { return a.c.Close() }
func (a *connAdapter) LocalAddr() net.Addr  { return connAddr{} }
func (a *connAdapter) RemoteAddr() net.Addr { return connAddr{} }

func (a *connAdapter) SetDeadline(t time.Time) error {
	a.c.SetReadDeadLine(t)
	a.c.SetWriteDeadLine(t)
	return nil
}

func (a *connAdapter) SetReadDeadline(t time.Time) error {
	a.c.SetReadDeadLine(t)
	return nil
}

func (a *connAdapter) SetWriteDeadline(t time.Time) error {
	a.c.SetWriteDeadLine(t)
	return nil
}

func wrapDeadline(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*deadlineError); !ok && IsTimeout(err) {
		return &deadlineError{cause: err}
	}
	return err
}
