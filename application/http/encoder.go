package http

import (
	"bufio"
	"io"
	"strconv"

	"http-req/application/util/rule"

	"github.com/pkg/errors"
)

const Version11 = "HTTP/1.1"

type RequestEncoder struct {
	bw *bufio.Writer
}

func NewRequestEncoder(w io.Writer) *RequestEncoder {
	return &RequestEncoder{bw: bufio.NewWriter(w)}
}

func (re *RequestEncoder) writeLine(parts ...string) error {
	for _, p := range parts {
		if _, err := re.bw.WriteString(p); err != nil {
			return errors.Wrap(err, "writing line")
		}
	}
	if _, err := re.bw.Write(rule.CRLF); err != nil {
		return errors.Wrap(err, "writing line terminator")
	}
	return nil
}

// Encode writes the request line, headers in insertion order, a blank line and body.
// Content-Length is added when body is non-nil and headers lack one; headers itself is not modified.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3
func (re *RequestEncoder) Encode(method Method, target string, headers Headers, body []byte) error {
	if err := re.writeLine(string(method), " ", target, " ", Version11); err != nil {
		return errors.Wrap(err, "writing request line")
	}

	if body != nil && !headers.Has("Content-Length") {
		headers = headers.Clone()
		headers.Insert("Content-Length", strconv.Itoa(len(body)))
	}

	for _, f := range headers.fields {
		if err := re.writeLine(f.name, ": ", f.value); err != nil {
			return errors.Wrap(err, "writing field")
		}
	}

	// Empty line ends the head.
	if err := re.writeLine(); err != nil {
		return err
	}

	if _, err := re.bw.Write(body); err != nil {
		return errors.Wrap(err, "writing body")
	}

	return re.bw.Flush()
}
