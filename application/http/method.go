package http

import (
	"strings"

	"http-req/application/util/rule"

	"github.com/pkg/errors"
)

type Method string

// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-9
const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodPatch   Method = "PATCH" // Reference: https://datatracker.ietf.org/doc/html/rfc5789
)

var methods = []Method{
	MethodGet, MethodHead, MethodPost, MethodPut, MethodDelete,
	MethodConnect, MethodOptions, MethodTrace, MethodPatch,
}

func (m Method) String() string { return string(m) }

// ParseMethod accepts any of the known methods, case-insensitively.
func ParseMethod(s string) (Method, error) {
	if !rule.IsValidToken(s) {
		return "", errors.Wrapf(ErrParse, "method %q is not a token", s)
	}
	for _, m := range methods {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", errors.Wrapf(ErrParse, "unknown method %q", s)
}
