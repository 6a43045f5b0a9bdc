// Package uri parses Uniform Resource Identifiers (URI) into index ranges
// over the original text, the way an HTTP client needs them: scheme,
// authority (user-info, host, port), path, query and fragment.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc3986
package uri
