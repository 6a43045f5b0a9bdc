// Package tls wraps transport streams with Transport Layer Security.
//
// Reference:
// - https://datatracker.ietf.org/doc/html/rfc8446
// - https://datatracker.ietf.org/doc/html/rfc6066
package tls

import (
	"context"

	"http-req/transport"

	"github.com/pkg/errors"
)

// ErrTLS matches every [*Error].
var ErrTLS = errors.New("tls failure")

// Error is a handshake or trust store failure.
type Error struct {
	Op    string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return "tls " + e.Op
	}
	return "tls " + e.Op + ": " + e.cause.Error()
}

func (e *Error) Is(target error) bool { return target == ErrTLS }
func (e *Error) Unwrap() error        { return e.cause }

// Connector turns a plain stream into an encrypted one, verifying the peer
// against hostname.
type Connector interface {
	Connect(ctx context.Context, hostname string, conn transport.Conn) (transport.Conn, error)
}
