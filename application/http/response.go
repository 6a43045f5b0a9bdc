package http

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"http-req/application/util/rule"
	iolib "http-req/lib/io"

	"github.com/pkg/errors"
)

type Response struct {
	Status  Status
	Headers Headers

	bodyWritten uint
}

func (r *Response) StatusCode() StatusCode { return r.Status.Code }
func (r *Response) Version() string        { return r.Status.Version }
func (r *Response) Reason() string         { return r.Status.Reason }

// ContentLen returns Content-Length when it is a valid unsigned integer.
// Any other value is treated as absent.
func (r *Response) ContentLen() (uint, bool) {
	v, ok := r.Headers.Get("Content-Length")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 0)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// BodyWritten returns how many body bytes [ResponseFrom] already wrote to its sink.
func (r *Response) BodyWritten() uint { return r.bodyWritten }

// ParseHead parses the status line and headers preceding the first CRLFCRLF of raw.
// Field lines that do not parse are skipped; only the status line is fatal.
func ParseHead(raw []byte) (Status, Headers, error) {
	head, _, err := splitHead(raw)
	if err != nil {
		return Status{}, Headers{}, err
	}

	lines := strings.Split(string(head), string(rule.CRLF))

	status, err := ParseStatus(lines[0])
	if err != nil {
		return Status{}, Headers{}, errors.Wrap(err, "parsing status line")
	}

	headers := NewHeaders()
	for _, line := range lines[1:] {
		if line == "" {
			break
		}
		_ = headers.parseFieldLine(line)
	}

	return status, headers, nil
}

// ResponseFrom parses the head of raw and writes the body bytes following it to sink.
// When Content-Length is known no more than that many bytes are written.
// A nil sink discards the body.
func ResponseFrom(raw []byte, sink io.Writer) (*Response, error) {
	status, headers, err := ParseHead(raw)
	if err != nil {
		return nil, err
	}
	_, body, _ := splitHead(raw)

	res := &Response{Status: status, Headers: headers}
	if n, ok := res.ContentLen(); ok && uint(len(body)) > n {
		body = body[:n]
	}

	if sink == nil || len(body) == 0 {
		return res, nil
	}

	n, err := iolib.WriteFull(sink, body)
	res.bodyWritten = n
	if err != nil {
		return res, errors.Wrap(err, "writing body")
	}
	return res, nil
}

func splitHead(raw []byte) (head, body []byte, err error) {
	if len(raw) == 0 {
		return nil, nil, ErrEmptyResponse
	}
	idx := bytes.Index(raw, rule.HeadDelimiter)
	if idx < 0 {
		return nil, nil, ErrMissingHeadDelimiter
	}
	return raw[:idx], raw[idx+len(rule.HeadDelimiter):], nil
}

// BodyAllowed reports whether a response with code to a request with method carries a body.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-6.3
func BodyAllowed(method Method, code StatusCode) bool {
	switch {
	case method == MethodHead:
		return false
	case code.IsInfo(), code == StatusNoContent, code == StatusNotModified:
		return false
	case method == MethodConnect && code.IsSuccess():
		return false
	}
	return true
}
