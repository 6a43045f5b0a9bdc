package main

import (
	"http-req/application/http"
	"http-req/application/http/actor/client"
	"http-req/application/util/uri"
	"http-req/session/tls"
	"http-req/transport"

	"github.com/pkg/errors"
)

const (
	ExitSuccess = 0

	// ExitFailure covers everything not listed below.
	ExitFailure = 1

	// ExitParseError indicates a malformed uri or response.
	ExitParseError = 2

	// ExitConfigError indicates an unreadable config file or certificate.
	ExitConfigError = 3

	// ExitNetworkError indicates a refused, closed or unreachable connection.
	ExitNetworkError = 4

	// ExitTimeout indicates a connect, read or write deadline.
	ExitTimeout = 5

	ExitUsageError = 64
)

var errUsage = errors.New("invalid usage")
var errConfig = errors.New("invalid configuration")

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errUsage):
		return ExitUsageError
	case errors.Is(err, errConfig):
		return ExitConfigError
	case client.IsTimeout(err):
		return ExitTimeout
	case errors.Is(err, uri.ErrInvalid), errors.Is(err, http.ErrParse), errors.Is(err, http.ErrFraming):
		return ExitParseError
	case errors.Is(err, tls.ErrTLS),
		errors.Is(err, transport.ErrConnRefused),
		errors.Is(err, transport.ErrConnClosed),
		errors.Is(err, transport.ErrNetUnreachable):
		return ExitNetworkError
	}
	return ExitFailure
}
