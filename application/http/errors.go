package http

import "github.com/pkg/errors"

// ErrParse is returned for a malformed status line or header block.
var ErrParse = errors.New("malformed http message")

// ErrFraming matches every [FramingError].
var ErrFraming = errors.New("response framing error")

// FramingError reports a response whose head or body boundaries
// could not be established.
type FramingError struct{ msg string }

func (e *FramingError) Error() string { return e.msg }

func (e *FramingError) Is(target error) bool { return target == ErrFraming }

var (
	ErrEmptyResponse        = &FramingError{"empty response"}
	ErrMissingHeadDelimiter = &FramingError{"head delimiter not found"}
	ErrHeadTooLong          = &FramingError{"response head exceeds limit"}
	ErrTruncatedBody        = &FramingError{"body shorter than content length"}
)
