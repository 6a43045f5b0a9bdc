package client

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
)

type Options struct {
	// MaxHeadLength bounds the status line and headers of a response.
	// Zero means no limit.
	MaxHeadLength uint

	// Zero timeouts mean no deadline.
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

var DefaultOptions = Options{
	MaxHeadLength: 64 << 10,
}

func defaultLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }
func defaultClock() clock.Clock   { return clock.New() }
