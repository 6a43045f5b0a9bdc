// Package transport describes the duplex byte stream an HTTP exchange runs on,
// and how deadlines and closed streams are reported.
package transport

import (
	"context"
	"net"
	"strconv"
	"strings"
)

type Protocol string

const (
	TCP Protocol = "tcp"
)

// Addr is a host and port to dial. Host may be a domain name,
// an IPv4 address or a bracketed IPv6 literal.
type Addr struct {
	Host string
	Port uint16
}

// Hostname returns Host without IP literal brackets.
func (a Addr) Hostname() string {
	return strings.TrimSuffix(strings.TrimPrefix(a.Host, "["), "]")
}

func (a Addr) String() string {
	return net.JoinHostPort(a.Hostname(), strconv.FormatUint(uint64(a.Port), 10))
}

type ConnListener interface {
	Accept(ctx context.Context) (Conn, error)
	Close() error
}

type ConnDialer interface {
	Dial(ctx context.Context, addr Addr) (Conn, error)
}
