package sample

import (
	"io"
	"log/slog"
)

type settings struct {
	logger *slog.Logger
}

// Option configures a sampler.
type Option func(*settings)

// WithLogger sets the logger that reports the low-yield valve.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
