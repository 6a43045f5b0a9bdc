package domain

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapLookuper(t *testing.T) {
	loopback := netip.MustParseAddr("127.0.0.1")
	l := NewMapLookuper(map[string][]netip.Addr{"localhost": {loopback}})

	addrs, err := l.LookupIP(context.Background(), "localhost")
	require.NoError(t, err)
	assert.Equal(t, []netip.Addr{loopback}, addrs)

	_, err = l.LookupIP(context.Background(), "example.com")
	assert.ErrorIs(t, err, ErrDomainNotFound)

	other := netip.MustParseAddr("::1")
	l.Set("example.com", []netip.Addr{other})
	addrs, err = l.LookupIP(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, []netip.Addr{other}, addrs)

	l.Set("empty", nil)
	_, err = l.LookupIP(context.Background(), "empty")
	assert.ErrorIs(t, err, ErrDomainNotFound)

	l.Del("example.com")
	_, err = l.LookupIP(context.Background(), "example.com")
	assert.ErrorIs(t, err, ErrDomainNotFound)
}

func TestNetLookuperLocalhost(t *testing.T) {
	l := NewNetLookuper(nil)

	addrs, err := l.LookupIP(context.Background(), "localhost")
	require.NoError(t, err)
	require.NotEmpty(t, addrs)

	for _, addr := range addrs {
		assert.True(t, addr.IsLoopback(), addr.String())
	}
}
