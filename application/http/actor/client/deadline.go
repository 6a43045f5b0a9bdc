package client

import (
	"time"

	"http-req/transport"

	"github.com/benbjohnson/clock"
)

// deadlineReader arms a fresh read deadline before every Read.
type deadlineReader struct {
	conn    transport.Conn
	clock   clock.Clock
	timeout time.Duration
}

func (r *deadlineReader) Read(p []byte) (int, error) {
	if r.timeout > 0 {
		r.conn.SetReadDeadLine(r.clock.Now().Add(r.timeout))
	}
	return r.conn.Read(p)
}

// deadlineWriter arms a fresh write deadline before every Write.
type deadlineWriter struct {
	conn    transport.Conn
	clock   clock.Clock
	timeout time.Duration
}

func (w *deadlineWriter) Write(p []byte) (int, error) {
	if w.timeout > 0 {
		w.conn.SetWriteDeadLine(w.clock.Now().Add(w.timeout))
	}
	return w.conn.Write(p)
}
