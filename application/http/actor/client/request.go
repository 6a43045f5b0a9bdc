package client

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"http-req/application/http"
	"http-req/application/util/uri"
	"http-req/session/tls"
	"http-req/transport"
	"http-req/transport/tcp"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

var (
	ErrNoHost            = errors.New("uri has no host")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// Request is a [RequestBuilder] that also owns its connection:
// it dials, wraps https in TLS, sends, and closes.
type Request struct {
	builder *RequestBuilder

	connectTimeout time.Duration
	dialer         transport.ConnDialer
	connector      tls.Connector
}

// NewRequest starts a GET for u with Host, Referer and "Connection: Close".
func NewRequest(u *uri.URI) *Request {
	b := NewRequestBuilder(u).Header("Connection", "Close")
	return &Request{builder: b}
}

func (r *Request) Method(m http.Method) *Request           { r.builder.Method(m); return r }
func (r *Request) Header(name, value string) *Request      { r.builder.Header(name, value); return r }
func (r *Request) Headers(h http.Headers) *Request         { r.builder.Headers(h); return r }
func (r *Request) Body(body []byte) *Request               { r.builder.Body(body); return r }
func (r *Request) ReadTimeout(d time.Duration) *Request    { r.builder.ReadTimeout(d); return r }
func (r *Request) WriteTimeout(d time.Duration) *Request   { r.builder.WriteTimeout(d); return r }
func (r *Request) MaxHeadLength(n uint) *Request           { r.builder.MaxHeadLength(n); return r }
func (r *Request) Clock(c clock.Clock) *Request            { r.builder.Clock(c); return r }
func (r *Request) Logger(l *slog.Logger) *Request          { r.builder.Logger(l); return r }
func (r *Request) ConnectTimeout(d time.Duration) *Request { r.connectTimeout = d; return r }

// Dialer replaces the TCP dialer, e.g. with an in-memory transport.
func (r *Request) Dialer(d transport.ConnDialer) *Request {
	r.dialer = d
	return r
}

// Connector replaces the TLS connector used for https.
func (r *Request) Connector(c tls.Connector) *Request {
	r.connector = c
	return r
}

func (r *Request) Builder() *RequestBuilder { return r.builder }
func (r *Request) ParseMsg() []byte         { return r.builder.ParseMsg() }

// Send runs the whole exchange on a fresh connection.
// ctx bounds the exchange; ConnectTimeout bounds dialing and the TLS handshake.
func (r *Request) Send(ctx context.Context, sink io.Writer) (*http.Response, error) {
	u := r.builder.uri
	logger := r.builder.logger

	scheme := strings.ToLower(u.Scheme())
	if scheme != "http" && scheme != "https" {
		return nil, errors.Wrap(ErrUnsupportedScheme, scheme)
	}
	host, ok := u.Host()
	if !ok {
		return nil, errors.Wrap(ErrNoHost, u.String())
	}
	addr := transport.Addr{Host: host, Port: u.CorrPort()}

	connectCtx, cancel := ctx, context.CancelFunc(func() {})
	if r.connectTimeout > 0 {
		connectCtx, cancel = r.builder.clock.WithTimeout(ctx, r.connectTimeout)
	}
	defer cancel()

	conn, err := r.connect(connectCtx, scheme, addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	logger.Debug("connected", slog.String("addr", addr.String()), slog.String("scheme", scheme))

	// Cancelling ctx aborts blocked reads and writes.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })

	res, err := r.builder.Send(conn, sink)
	// A close done by ctx looks like the peer ending the stream,
	// so a close-delimited body would otherwise pass as complete.
	if aborted := !stop(); aborted || (err != nil && ctx.Err() != nil) {
		if err == nil {
			err = errors.New("exchange interrupted")
		}
		return nil, &abortedError{cause: err, ctxErr: context.Cause(ctx)}
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// abortedError keeps the failure of an exchange cut short by its context.
// It matches both the context error and the underlying cause.
type abortedError struct {
	cause  error
	ctxErr error
}

func (e *abortedError) Error() string        { return e.ctxErr.Error() + ": " + e.cause.Error() }
func (e *abortedError) Unwrap() error        { return e.cause }
func (e *abortedError) Is(target error) bool { return errors.Is(e.ctxErr, target) }

func (r *Request) connect(ctx context.Context, scheme string, addr transport.Addr) (transport.Conn, error) {
	dialer := r.dialer
	if dialer == nil {
		dialer = tcp.NewDialer(nil)
	}

	conn, err := dialer.Dial(ctx, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", addr)
	}
	if scheme != "https" {
		return conn, nil
	}

	connector := r.connector
	if connector == nil {
		connector = tls.NewConfig()
	}

	secured, err := connector.Connect(ctx, addr.Hostname(), conn)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "securing connection to %s", addr)
	}
	return secured, nil
}
