package uri

import (
	"strconv"
	"strings"

	"http-req/application/util/rule"

	"github.com/pkg/errors"
)

var ErrInvalid = errors.New("invalid URI")

// URI owns its source text and marks every component with a [RangeC].
// Components appear in source order: scheme < authority < path < query < fragment.
type URI struct {
	raw string

	scheme    RangeC
	authority *RangeC
	path      *RangeC
	query     *RangeC
	fragment  *RangeC

	parsedAuthority *Authority
}

// Parse parses raw in a single left to right scan.
// ASCII whitespace is dropped before parsing.
func Parse(raw string) (*URI, error) {
	s := stripWhitespace(raw)
	if containsCTL(s) {
		return nil, errors.Wrap(ErrInvalid, "URI should not contain CTL bytes")
	}

	u := &URI{raw: s}

	// scheme ":"
	i := 0
	for i < len(s) && rule.IsSchemeChar(s[i]) {
		i++
	}
	switch {
	case i == len(s):
		return nil, errors.Wrapf(ErrInvalid, "expected ':' after scheme in %q", s)
	case s[i] != ':':
		return nil, errors.Wrapf(ErrInvalid, "expected scheme character or ':', got %q", s[i])
	case i == 0:
		return nil, errors.Wrapf(ErrInvalid, "expected scheme before ':' in %q", s)
	}
	u.scheme = NewRangeC(0, uint(i))
	pos := i + 1

	// "//" authority
	if strings.HasPrefix(s[pos:], "//") {
		start := pos + 2
		end := indexAnyFrom(s, start, "/?#")
		u.authority = rangePtr(start, end)

		if start < end {
			a, err := ParseAuthority(s[start:end])
			if err != nil {
				return nil, errors.Wrap(err, "parsing authority")
			}
			u.parsedAuthority = a
		}
		pos = end
	}

	// path
	// A lone "/" after an authority is the root and reported as no path.
	if end := indexAnyFrom(s, pos, "?#"); end > pos {
		if !(u.authority != nil && s[pos:end] == "/") {
			u.path = rangePtr(pos, end)
		}
		pos = end
	}

	// "?" query
	if pos < len(s) && s[pos] == '?' {
		end := indexAnyFrom(s, pos+1, "#")
		u.query = rangePtr(pos+1, end)
		pos = end
	}

	// "#" fragment
	if pos < len(s) && s[pos] == '#' {
		u.fragment = rangePtr(pos+1, len(s))
	}

	return u, nil
}

// MustParse is like [Parse] but panics on error. It is meant for constants.
func MustParse(raw string) *URI {
	u, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// Raw returns the parsed text, user-info included.
func (u *URI) Raw() string { return u.raw }

func (u *URI) Scheme() string { return u.scheme.Slice(u.raw) }

// Authority returns the parsed authority. It is absent when the URI has
// no "//" or the authority is empty (e.g. "file:///etc/hosts").
func (u *URI) Authority() (*Authority, bool) {
	if u.parsedAuthority == nil {
		return nil, false
	}
	return u.parsedAuthority, true
}

func (u *URI) UserInfo() (string, bool) {
	a, ok := u.Authority()
	if !ok {
		return "", false
	}
	return a.UserInfo()
}

func (u *URI) Host() (string, bool) {
	a, ok := u.Authority()
	if !ok {
		return "", false
	}
	return a.Host(), true
}

func (u *URI) Port() (uint16, bool) {
	a, ok := u.Authority()
	if !ok {
		return 0, false
	}
	return a.Port()
}

// CorrPort returns the explicit port, or the default port of the scheme.
func (u *URI) CorrPort() uint16 {
	if port, ok := u.Port(); ok {
		return port
	}
	return DefaultPort(u.Scheme())
}

// HostHeader returns the value of a Host header for this URI.
// The port is omitted when it is the scheme default.
func (u *URI) HostHeader() (string, bool) {
	host, ok := u.Host()
	if !ok {
		return "", false
	}

	if port, ok := u.Port(); ok && port != DefaultPort(u.Scheme()) {
		return host + ":" + strconv.FormatUint(uint64(port), 10), true
	}
	return host, true
}

func (u *URI) Path() (string, bool)     { return u.component(u.path) }
func (u *URI) Query() (string, bool)    { return u.component(u.query) }
func (u *URI) Fragment() (string, bool) { return u.component(u.fragment) }

func (u *URI) component(r *RangeC) (string, bool) {
	if r == nil {
		return "", false
	}
	return r.Slice(u.raw), true
}

// Resource returns path, query and fragment as they go into a request line.
// A missing path is written as "/", even though [URI.Path] reports it absent.
func (u *URI) Resource() string {
	b := new(strings.Builder)

	path, ok := u.Path()
	if !ok {
		path = "/"
	}
	b.WriteString(path)

	if query, ok := u.Query(); ok {
		b.WriteByte('?')
		b.WriteString(query)
	}
	if frag, ok := u.Fragment(); ok {
		b.WriteByte('#')
		b.WriteString(frag)
	}

	return b.String()
}

// String formats the URI with the user-info password masked.
// Everything else is written as it was parsed.
func (u *URI) String() string {
	a, ok := u.Authority()
	if !ok {
		return u.raw
	}

	start, end := u.authority.Range()
	return u.raw[:start] + a.String() + u.raw[end:]
}
