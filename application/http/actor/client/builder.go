// Package client sends HTTP/1.1 requests over a single transport stream
// and streams the response body to a caller supplied sink.
package client

import (
	"bytes"
	"io"
	"log/slog"
	"time"

	"http-req/application/http"
	"http-req/application/util/rule"
	"http-req/application/util/uri"
	iolib "http-req/lib/io"
	"http-req/transport"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// RequestBuilder describes one request. Mutators only touch memory.
type RequestBuilder struct {
	uri     *uri.URI
	method  http.Method
	headers http.Headers
	body    []byte

	opts   Options
	clock  clock.Clock
	logger *slog.Logger
}

// NewRequestBuilder starts a GET for u with Host and Referer set.
func NewRequestBuilder(u *uri.URI) *RequestBuilder {
	return &RequestBuilder{
		uri:     u,
		method:  http.MethodGet,
		headers: http.DefaultHTTP(u),
		opts:    DefaultOptions,
		clock:   defaultClock(),
		logger:  defaultLogger(),
	}
}

func (b *RequestBuilder) Method(m http.Method) *RequestBuilder {
	b.method = m
	return b
}

func (b *RequestBuilder) Header(name, value string) *RequestBuilder {
	b.headers.Insert(name, value)
	return b
}

// Headers replaces every header, including the defaults.
func (b *RequestBuilder) Headers(h http.Headers) *RequestBuilder {
	b.headers = h.Clone()
	return b
}

// Body sets the payload. nil means no body.
func (b *RequestBuilder) Body(body []byte) *RequestBuilder {
	b.body = body
	return b
}

func (b *RequestBuilder) ReadTimeout(d time.Duration) *RequestBuilder {
	b.opts.ReadTimeout = d
	return b
}

func (b *RequestBuilder) WriteTimeout(d time.Duration) *RequestBuilder {
	b.opts.WriteTimeout = d
	return b
}

func (b *RequestBuilder) MaxHeadLength(n uint) *RequestBuilder {
	b.opts.MaxHeadLength = n
	return b
}

func (b *RequestBuilder) Clock(c clock.Clock) *RequestBuilder {
	if c != nil {
		b.clock = c
	}
	return b
}

func (b *RequestBuilder) Logger(l *slog.Logger) *RequestBuilder {
	if l != nil {
		b.logger = l
	}
	return b
}

func (b *RequestBuilder) URI() *uri.URI { return b.uri }

// ParseMsg serializes the request as it would go on the wire.
func (b *RequestBuilder) ParseMsg() []byte {
	var buf bytes.Buffer
	// Writing into memory does not fail.
	_ = http.NewRequestEncoder(&buf).Encode(b.method, b.uri.Resource(), b.headers, b.body)
	return buf.Bytes()
}

// Send writes the request to stream and reads the response.
// The body goes to sink (discarded when nil) as it arrives;
// it is framed by Content-Length when present and valid, else by end of stream.
func (b *RequestBuilder) Send(stream transport.Conn, sink io.Writer) (*http.Response, error) {
	if sink == nil {
		sink = io.Discard
	}

	msg := b.ParseMsg()
	w := &deadlineWriter{conn: stream, clock: b.clock, timeout: b.opts.WriteTimeout}
	if _, err := iolib.WriteFull(w, msg); err != nil {
		return nil, errors.Wrap(err, "writing request")
	}
	if f, ok := stream.(transport.Flusher); ok {
		if err := f.Flush(); err != nil {
			return nil, errors.Wrap(err, "flushing request")
		}
	}
	b.logger.Debug("request written",
		slog.String("method", b.method.String()),
		slog.String("resource", b.uri.Resource()),
		slog.Int("bytes", len(msg)),
	)

	r := iolib.NewUntilReader(&deadlineReader{conn: stream, clock: b.clock, timeout: b.opts.ReadTimeout})

	res, err := b.readHead(r, sink)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("response head parsed",
		slog.Int("status", int(res.StatusCode())),
		slog.Int("headers", res.Headers.Len()),
	)

	if !http.BodyAllowed(b.method, res.StatusCode()) {
		return res, nil
	}

	total, err := b.readBody(r, res, sink)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("response body done", slog.Uint64("bytes", uint64(total)))

	return res, nil
}

func (b *RequestBuilder) readHead(r *iolib.UntilReader, sink io.Writer) (*http.Response, error) {
	head, err := r.ReadUntilLimit(rule.HeadDelimiter, b.opts.MaxHeadLength)
	if err != nil {
		switch {
		case errors.Is(err, iolib.ErrLimitReached):
			return nil, errors.Wrapf(http.ErrHeadTooLong, "more than %d bytes", b.opts.MaxHeadLength)
		case errors.Is(err, io.EOF), transport.IsClosed(err):
			if len(head) == 0 {
				return nil, http.ErrEmptyResponse
			}
			return nil, errors.Wrapf(http.ErrMissingHeadDelimiter, "stream ended after %d bytes", len(head))
		}
		return nil, errors.Wrap(err, "reading response head")
	}

	// Bytes read past the delimiter are the start of the body.
	if n := r.Buffered(); n > 0 {
		rest := make([]byte, n)
		if _, err := io.ReadFull(r, rest); err != nil {
			return nil, errors.Wrap(err, "draining buffered body")
		}
		head = append(head, rest...)
	}

	res, err := http.ResponseFrom(head, sink)
	if err != nil {
		return nil, errors.Wrap(err, "parsing response")
	}
	return res, nil
}

func (b *RequestBuilder) readBody(r io.Reader, res *http.Response, sink io.Writer) (uint, error) {
	written := res.BodyWritten()

	length, ok := res.ContentLen()
	if !ok {
		n, err := io.Copy(sink, r)
		if err != nil && !transport.IsClosed(err) {
			return written + uint(n), errors.Wrap(err, "reading body")
		}
		return written + uint(n), nil
	}

	remaining := length - written
	n, err := io.Copy(sink, iolib.LimitReader(r, remaining))
	written += uint(n)
	if uint(n) < remaining && (err == nil || transport.IsClosed(err)) {
		return written, errors.Wrapf(http.ErrTruncatedBody, "got %d of %d bytes", written, length)
	}
	if err != nil {
		return written, errors.Wrap(err, "reading body")
	}
	return written, nil
}
