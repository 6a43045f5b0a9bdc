package transport

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromNetConnReadWrite(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	conn := FromNetConn(c1)

	go func() {
		_, _ = c2.Write([]byte("hello"))
		_ = c2.Close()
	}()

	b, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestFromNetConnReadDeadLine(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	conn := FromNetConn(c1)
	conn.SetReadDeadLine(time.Now().Add(-time.Second))

	n, err := conn.Read(make([]byte, 1))
	assert.Zero(t, n)
	assert.True(t, IsTimeout(err))
	assert.ErrorIs(t, err, ErrDeadLineExceeded)
}

func TestFromNetConnWriteDeadLine(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	conn := FromNetConn(c1)
	conn.SetWriteDeadLine(time.Now().Add(-time.Second))

	_, err := conn.Write([]byte("x"))
	assert.True(t, IsTimeout(err))
}

func TestNetConnRoundTrip(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	assert.Same(t, c1, NetConn(FromNetConn(c1)))
}

func TestMapNetError(t *testing.T) {
	assert.NoError(t, MapNetError(nil))
	assert.Equal(t, io.EOF, MapNetError(io.EOF))
	assert.True(t, IsClosed(MapNetError(net.ErrClosed)))

	var ne net.Error
	mapped := MapNetError(errors.Wrap(ErrDeadLineExceeded, "reading"))
	require.True(t, errors.As(mapped, &ne))
	assert.True(t, ne.Timeout())

	other := errors.New("boom")
	assert.Equal(t, other, MapNetError(other))
}

func TestAddr(t *testing.T) {
	testcases := []struct {
		addr     Addr
		hostname string
		str      string
	}{
		{Addr{"example.com", 80}, "example.com", "example.com:80"},
		{Addr{"127.0.0.1", 8080}, "127.0.0.1", "127.0.0.1:8080"},
		{Addr{"[::1]", 443}, "::1", "[::1]:443"},
	}
	for _, tc := range testcases {
		t.Run(tc.str, func(t *testing.T) {
			assert.Equal(t, tc.hostname, tc.addr.Hostname())
			assert.Equal(t, tc.str, tc.addr.String())
		})
	}
}
