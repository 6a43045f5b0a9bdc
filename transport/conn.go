package transport

import (
	"time"

	"github.com/pkg/errors"
)

var (
	ErrConnClosed         = errors.New("connection is closed")
	ErrConnRefused        = errors.New("connection refused")
	ErrConnListenerClosed = errors.New("conn listener is closed")
	ErrAddrAlreadyInUse   = errors.New("address already in use")
	ErrNetUnreachable     = errors.New("network is unreachable")
	ErrDeadLineExceeded   = errors.New("deadline exceeded")
)

// Conn is a duplex byte stream.
// A zero deadline means no deadline.
type Conn interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
	SetReadDeadLine(t time.Time)
	SetWriteDeadLine(t time.Time)
}

// Flusher is implemented by streams that buffer writes.
type Flusher interface {
	Flush() error
}

// IsClosed reports whether err means the peer or this end closed the stream.
func IsClosed(err error) bool {
	return errors.Is(err, ErrConnClosed)
}

// IsTimeout reports whether err is a deadline failure.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrDeadLineExceeded)
}
