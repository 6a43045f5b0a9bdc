// Package http implements the HTTP/1.1 message framing a client needs:
// request serialization, response head parsing and body framing.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package http
