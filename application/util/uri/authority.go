package uri

import (
	"strconv"
	"strings"

	"http-req/application/util/rule"

	"github.com/pkg/errors"
)

// Authority is the "user:password@host:port" part of a URI.
// It keeps its own copy of the text; fields are ranges over it.
type Authority struct {
	raw string

	username *RangeC
	password *RangeC
	host     RangeC

	// NOTE: RFC 3986 lets port be digits of any length,
	// but anything outside of uint16 is useless for dialing.
	port *uint16
}

// ParseAuthority parses raw as an authority component.
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.2
func ParseAuthority(raw string) (*Authority, error) {
	if containsCTL(raw) {
		return nil, errors.Wrap(ErrInvalid, "authority should not contain CTL bytes")
	}

	a := &Authority{raw: raw}

	hostStart := 0
	// Hosts never contain '@', so the last one ends the user-info.
	if at := strings.LastIndexByte(raw, '@'); at >= 0 {
		userInfo := raw[:at]
		if colon := strings.IndexByte(userInfo, ':'); colon >= 0 {
			a.username = rangePtr(0, colon)
			a.password = rangePtr(colon+1, at)
		} else {
			a.username = rangePtr(0, at)
		}
		hostStart = at + 1
	}

	hostLen, portPart, err := splitHostPort(raw[hostStart:])
	if err != nil {
		return nil, errors.Wrapf(err, "parsing host of %q", raw)
	}
	if hostLen == 0 {
		return nil, errors.Wrapf(ErrInvalid, "expected host in authority %q", raw)
	}
	a.host = NewRangeC(uint(hostStart), uint(hostStart+hostLen))

	port, hasPort, err := parsePort(portPart)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing port of %q", raw)
	}
	if hasPort {
		a.port = &port
	}

	return a, nil
}

// splitHostPort returns the length of the host at the start of s,
// and the text after the port delimiter.
func splitHostPort(s string) (hostLen int, portPart string, err error) {
	if strings.HasPrefix(s, "[") {
		// This is IP Literal. Brackets are part of the host.
		idx := strings.IndexByte(s, ']')
		if idx < 0 {
			return 0, "", errors.Wrap(ErrInvalid, "expected ']' closing IP literal")
		}

		rest := s[idx+1:]
		if rest == "" {
			return idx + 1, "", nil
		}
		if rest[0] != ':' {
			return 0, "", errors.Wrapf(ErrInvalid, "expected ':' after IP literal, got %q", rest)
		}
		return idx + 1, rest[1:], nil
	}

	// ipv4 or reg-name.
	if idx := strings.LastIndexByte(s, ':'); idx >= 0 {
		return idx, s[idx+1:], nil
	}
	return len(s), "", nil
}

// An empty port is allowed and means the scheme default.
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.2.3
func parsePort(s string) (port uint16, hasPort bool, err error) {
	if s == "" {
		return 0, false, nil
	}

	if !rule.IsAllDigits(s) {
		return 0, false, errors.Wrapf(ErrInvalid, "expected numeric port, got %q", s)
	}

	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false, errors.Wrapf(ErrInvalid, "port %q out of range", s)
	}

	return uint16(n), true, nil
}

func (a *Authority) Username() (string, bool) {
	if a.username == nil {
		return "", false
	}
	return a.username.Slice(a.raw), true
}

func (a *Authority) Password() (string, bool) {
	if a.password == nil {
		return "", false
	}
	return a.password.Slice(a.raw), true
}

// Host returns the host as written, IP literals keep their brackets.
func (a *Authority) Host() string { return a.host.Slice(a.raw) }

func (a *Authority) Port() (uint16, bool) {
	if a.port == nil {
		return 0, false
	}
	return *a.port, true
}

// UserInfo returns the unmasked user-info.
func (a *Authority) UserInfo() (string, bool) {
	if a.username == nil {
		return "", false
	}
	end := a.username.End
	if a.password != nil {
		end = a.password.End
	}
	return a.raw[:end], true
}

// String formats the authority with its password masked.
func (a *Authority) String() string {
	b := new(strings.Builder)
	if username, ok := a.Username(); ok {
		b.WriteString(username)
		if _, ok := a.Password(); ok {
			b.WriteString(":****")
		}
		b.WriteByte('@')
	}

	b.WriteString(a.Host())

	if port, ok := a.Port(); ok {
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(port), 10))
	}

	return b.String()
}
