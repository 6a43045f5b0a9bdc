package client

import (
	"context"
	"io"

	"http-req/application/http"
	"http-req/application/util/uri"
	"http-req/transport"

	"github.com/pkg/errors"
)

// Get fetches rawURI with default settings, streaming the body to sink.
func Get(ctx context.Context, rawURI string, sink io.Writer) (*http.Response, error) {
	u, err := uri.Parse(rawURI)
	if err != nil {
		return nil, errors.Wrap(err, "parsing uri")
	}
	return NewRequest(u).Send(ctx, sink)
}

// Head fetches the head of rawURI with default settings.
func Head(ctx context.Context, rawURI string) (*http.Response, error) {
	u, err := uri.Parse(rawURI)
	if err != nil {
		return nil, errors.Wrap(err, "parsing uri")
	}
	return NewRequest(u).Method(http.MethodHead).Send(ctx, nil)
}

// IsTimeout reports whether err comes from a connect, read, write
// or handshake deadline.
func IsTimeout(err error) bool {
	return transport.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded)
}
