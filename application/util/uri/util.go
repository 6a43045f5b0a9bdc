package uri

import (
	"strings"

	"http-req/application/util/rule"
)

const (
	HTTPPort  uint16 = 80
	HTTPSPort uint16 = 443
)

// DefaultPort returns the conventional port of scheme.
// Every scheme other than https falls back to the HTTP port.
func DefaultPort(scheme string) uint16 {
	if strings.EqualFold(scheme, "https") {
		return HTTPSPort
	}
	return HTTPPort
}

func containsCTL(s string) bool {
	for i := 0; i < len(s); i++ {
		if rule.IsCTL(s[i]) {
			return true
		}
	}
	return false
}

// stripWhitespace drops every ASCII whitespace byte, so that URIs pasted
// with line breaks or stray spaces still parse.
func stripWhitespace(s string) string {
	if strings.IndexAny(s, " \t\r\n\v\f") < 0 {
		return s
	}

	b := new(strings.Builder)
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// indexAnyFrom returns the index of the first byte of chars in s at or after from,
// or len(s) when none is found.
func indexAnyFrom(s string, from int, chars string) int {
	if i := strings.IndexAny(s[from:], chars); i >= 0 {
		return from + i
	}
	return len(s)
}
