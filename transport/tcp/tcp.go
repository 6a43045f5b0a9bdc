// Package tcp dials TCP streams for the HTTP client.
package tcp

import (
	"context"
	"net"
	"net/netip"
	"syscall"

	"http-req/application/util/domain"
	"http-req/transport"

	"github.com/pkg/errors"
)

// Dialer resolves host names through a [domain.Lookuper] and
// tries every resolved address in order until one connects.
type Dialer struct {
	lookuper domain.Lookuper
	dialer   net.Dialer
	noDelay  bool
}

var _ transport.ConnDialer = (*Dialer)(nil)

// NewDialer creates a Dialer. A nil lookuper resolves with the system resolver.
func NewDialer(lookuper domain.Lookuper) *Dialer {
	if lookuper == nil {
		lookuper = domain.NewNetLookuper(nil)
	}
	return &Dialer{lookuper: lookuper, noDelay: true}
}

// SetNoDelay controls Nagle's algorithm on dialed connections.
func (d *Dialer) SetNoDelay(noDelay bool) { d.noDelay = noDelay }

func (d *Dialer) Dial(ctx context.Context, addr transport.Addr) (transport.Conn, error) {
	ips, err := d.resolve(ctx, addr.Hostname())
	if err != nil {
		return nil, transport.MapNetError(err)
	}
	if len(ips) == 0 {
		return nil, errors.Wrap(domain.ErrDomainNotFound, addr.Hostname())
	}

	var lastErr error
	for _, ip := range ips {
		target := netip.AddrPortFrom(ip, addr.Port)

		conn, err := d.dialer.DialContext(ctx, string(transport.TCP), target.String())
		if err != nil {
			lastErr = mapDialError(err)
			if ctx.Err() != nil || transport.IsTimeout(lastErr) {
				break
			}
			continue
		}

		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(d.noDelay)
		}
		return transport.FromNetConn(conn), nil
	}

	return nil, errors.Wrapf(lastErr, "dialing %s", addr)
}

func (d *Dialer) resolve(ctx context.Context, host string) ([]netip.Addr, error) {
	if ip, err := netip.ParseAddr(host); err == nil {
		return []netip.Addr{ip}, nil
	}
	return d.lookuper.LookupIP(ctx, host)
}

func mapDialError(err error) error {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return errors.Wrap(transport.ErrConnRefused, err.Error())
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return errors.Wrap(transport.ErrNetUnreachable, err.Error())
	}
	return transport.MapNetError(err)
}
