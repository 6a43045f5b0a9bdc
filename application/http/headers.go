package http

import (
	"maps"
	"slices"
	"strings"

	"http-req/application/util/rule"
	"http-req/application/util/uri"

	"github.com/pkg/errors"
)

// Headers maps case-insensitive field names to a single value.
// A later Insert of the same name replaces the value and the stored casing,
// but the field keeps the position of its first insertion.
//
// The zero value is an empty Headers ready to use.
type Headers struct {
	fields []field
	index  map[string]int // lower-cased name -> position in fields.
}

type field struct{ name, value string }

func NewHeaders() Headers { return Headers{} }

// DefaultHTTP returns the headers every request to u starts with:
// Host (when u has one) followed by Referer.
func DefaultHTTP(u *uri.URI) Headers {
	h := NewHeaders()
	if host, ok := u.HostHeader(); ok {
		h.Insert("Host", host)
	}
	h.Insert("Referer", u.Raw())
	return h
}

// HeadersFromMap builds Headers from m in sorted key order.
// It is lossy: names differing only in case collapse into one field.
func HeadersFromMap(m map[string]string) Headers {
	h := NewHeaders()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		h.Insert(k, m[k])
	}
	return h
}

// ParseHeaders parses a block of "Name: value" lines separated by CRLF or LF.
// Blank lines are skipped. One leading space is trimmed from each value.
func ParseHeaders(raw string) (Headers, error) {
	h := NewHeaders()
	for line := range strings.Lines(raw) {
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if line == "" {
			continue
		}
		if err := h.parseFieldLine(line); err != nil {
			return Headers{}, err
		}
	}
	return h, nil
}

func (h *Headers) parseFieldLine(line string) error {
	name, value, found := strings.Cut(line, ":")
	if !found {
		return errors.Wrapf(ErrParse, "expected ':' in field line %q", line)
	}

	// No whitespace is allowed between field name and colon.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-2
	if !rule.IsValidToken(name) {
		return errors.Wrapf(ErrParse, "invalid field name %q", name)
	}

	h.Insert(name, strings.TrimPrefix(value, string(rule.SP)))
	return nil
}

func (h *Headers) Insert(name, value string) {
	key := strings.ToLower(name)
	if i, ok := h.index[key]; ok {
		h.fields[i] = field{name, value}
		return
	}

	if h.index == nil {
		h.index = make(map[string]int)
	}
	h.index[key] = len(h.fields)
	h.fields = append(h.fields, field{name, value})
}

func (h *Headers) Get(name string) (string, bool) {
	i, ok := h.index[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return h.fields[i].value, true
}

func (h *Headers) Has(name string) bool {
	_, ok := h.index[strings.ToLower(name)]
	return ok
}

func (h *Headers) Del(name string) {
	key := strings.ToLower(name)
	i, ok := h.index[key]
	if !ok {
		return
	}

	h.fields = slices.Delete(h.fields, i, i+1)
	delete(h.index, key)
	for k, pos := range h.index {
		if pos > i {
			h.index[k] = pos - 1
		}
	}
}

func (h *Headers) Len() int { return len(h.fields) }

// Fields returns name/value pairs in insertion order.
func (h *Headers) Fields() [][2]string {
	out := make([][2]string, 0, len(h.fields))
	for _, f := range h.fields {
		out = append(out, [2]string{f.name, f.value})
	}
	return out
}

// Merge inserts every field of other, replacing existing values.
func (h *Headers) Merge(other Headers) {
	for _, f := range other.fields {
		h.Insert(f.name, f.value)
	}
}

// ToMap returns the fields keyed by their stored casing.
func (h *Headers) ToMap() map[string]string {
	m := make(map[string]string, len(h.fields))
	for _, f := range h.fields {
		m[f.name] = f.value
	}
	return m
}

// Equal reports whether both hold the same names (ignoring case)
// with identical values. Order does not matter.
func (h *Headers) Equal(other Headers) bool {
	if h.Len() != other.Len() {
		return false
	}
	for _, f := range h.fields {
		v, ok := other.Get(f.name)
		if !ok || v != f.value {
			return false
		}
	}
	return true
}

func (h *Headers) Clone() Headers {
	return Headers{
		fields: slices.Clone(h.fields),
		index:  maps.Clone(h.index),
	}
}

func (h *Headers) String() string {
	var sb strings.Builder
	for _, f := range h.fields {
		sb.WriteString(f.name)
		sb.WriteString(": ")
		sb.WriteString(f.value)
		sb.Write(rule.CRLF)
	}
	return sb.String()
}
