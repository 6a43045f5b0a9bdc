package http

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StatusCode is the numeric code of a status line.
// Parsed codes may exceed three digits.
type StatusCode uint16

func (c StatusCode) Is(predicate func(uint16) bool) bool { return predicate(uint16(c)) }

func (c StatusCode) IsInfo() bool      { return 100 <= c && c < 200 }
func (c StatusCode) IsSuccess() bool   { return 200 <= c && c < 300 }
func (c StatusCode) IsRedirect() bool  { return 300 <= c && c < 400 }
func (c StatusCode) IsClientErr() bool { return 400 <= c && c < 500 }
func (c StatusCode) IsServerErr() bool { return 500 <= c && c < 600 }

// Reason returns the registered reason phrase of c.
func (c StatusCode) Reason() (string, bool) {
	reason, ok := reasons[c]
	return reason, ok
}

func (c StatusCode) String() string { return strconv.FormatUint(uint64(c), 10) }

func ParseStatusCode(s string) (StatusCode, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, errors.Wrapf(ErrParse, "status code %q is not an unsigned integer", s)
	}
	return StatusCode(n), nil
}

// Status is a parsed status line.
type Status struct {
	Version string
	Code    StatusCode
	Reason  string
}

// ParseStatus parses "<version> <code> <reason>". The reason may contain spaces
// and may be empty, but both separators are required.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-4
func ParseStatus(line string) (Status, error) {
	version, rest, ok := strings.Cut(line, " ")
	if !ok {
		return Status{}, errors.Wrapf(ErrParse, "expected space after version in status line %q", line)
	}
	code, reason, ok := strings.Cut(rest, " ")
	if !ok {
		return Status{}, errors.Wrapf(ErrParse, "expected space after code in status line %q", line)
	}

	sc, err := ParseStatusCode(code)
	if err != nil {
		return Status{}, err
	}

	return Status{Version: version, Code: sc, Reason: reason}, nil
}

func (s Status) String() string {
	return s.Version + " " + s.Code.String() + " " + s.Reason
}

var reasons = make(map[StatusCode]string)

func add(code StatusCode, reason string) StatusCode {
	reasons[code] = reason
	return code
}

// Informational 1xx
// Reference: https://www.iana.org/assignments/http-status-codes
var (
	StatusContinue           = add(100, "Continue")
	StatusSwitchingProtocols = add(101, "Switching Protocols")
	StatusProcessing         = add(102, "Processing")
	StatusEarlyHints         = add(103, "Early Hints")
)

// Successful 2xx
var (
	StatusOK                   = add(200, "OK")
	StatusCreated              = add(201, "Created")
	StatusAccepted             = add(202, "Accepted")
	StatusNonAuthoritativeInfo = add(203, "Non-Authoritative Information")
	StatusNoContent            = add(204, "No Content")
	StatusResetContent         = add(205, "Reset Content")
	StatusPartialContent       = add(206, "Partial Content")
	StatusMultiStatus          = add(207, "Multi-Status")
	StatusAlreadyReported      = add(208, "Already Reported")
	StatusIMUsed               = add(226, "IM Used")
)

// Redirection 3xx
var (
	StatusMultipleChoices   = add(300, "Multiple Choices")
	StatusMovedPermanently  = add(301, "Moved Permanently")
	StatusFound             = add(302, "Found")
	StatusSeeOther          = add(303, "See Other")
	StatusNotModified       = add(304, "Not Modified")
	StatusUseProxy          = add(305, "Use Proxy")
	_                       = add(306, "(Unused)")
	StatusTemporaryRedirect = add(307, "Temporary Redirect")
	StatusPermanentRedirect = add(308, "Permanent Redirect")
)

// Client Error 4xx
var (
	StatusBadRequest                  = add(400, "Bad Request")
	StatusUnauthorized                = add(401, "Unauthorized")
	StatusPaymentRequired             = add(402, "Payment Required")
	StatusForbidden                   = add(403, "Forbidden")
	StatusNotFound                    = add(404, "Not Found")
	StatusMethodNotAllowed            = add(405, "Method Not Allowed")
	StatusNotAcceptable               = add(406, "Not Acceptable")
	StatusProxyAuthRequired           = add(407, "Proxy Authentication Required")
	StatusRequestTimeout              = add(408, "Request Timeout")
	StatusConflict                    = add(409, "Conflict")
	StatusGone                        = add(410, "Gone")
	StatusLengthRequired              = add(411, "Length Required")
	StatusPreconditionFailed          = add(412, "Precondition Failed")
	StatusContentTooLarge             = add(413, "Content Too Large")
	StatusURITooLong                  = add(414, "URI Too Long")
	StatusUnsupportedMediaType        = add(415, "Unsupported Media Type")
	StatusRangeNotSatisfiable         = add(416, "Range Not Satisfiable")
	StatusExpectationFailed           = add(417, "Expectation Failed")
	StatusImATeapot                   = add(418, "I'm a teapot")
	StatusMisdirectedRequest          = add(421, "Misdirected Request")
	StatusUnprocessableContent        = add(422, "Unprocessable Content")
	StatusLocked                      = add(423, "Locked")
	StatusFailedDependency            = add(424, "Failed Dependency")
	StatusTooEarly                    = add(425, "Too Early")
	StatusUpgradeRequired             = add(426, "Upgrade Required")
	StatusPreconditionRequired        = add(428, "Precondition Required")
	StatusTooManyRequests             = add(429, "Too Many Requests")
	StatusRequestHeaderFieldsTooLarge = add(431, "Request Header Fields Too Large")
	StatusUnavailableForLegalReasons  = add(451, "Unavailable For Legal Reasons")
)

// Server Error 5xx
var (
	StatusInternalServerError           = add(500, "Internal Server Error")
	StatusNotImplemented                = add(501, "Not Implemented")
	StatusBadGateway                    = add(502, "Bad Gateway")
	StatusServiceUnavailable            = add(503, "Service Unavailable")
	StatusGatewayTimeout                = add(504, "Gateway Timeout")
	StatusHTTPVersionNotSupported       = add(505, "HTTP Version Not Supported")
	StatusVariantAlsoNegotiates         = add(506, "Variant Also Negotiates")
	StatusInsufficientStorage           = add(507, "Insufficient Storage")
	StatusLoopDetected                  = add(508, "Loop Detected")
	StatusNotExtended                   = add(510, "Not Extended")
	StatusNetworkAuthenticationRequired = add(511, "Network Authentication Required")
)
