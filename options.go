package structargs

import (
	"log/slog"

	"github.com/canoriz/structargs/argparse"
)

type options struct {
	parser *argparse.Parser
	logger *slog.Logger
	prog   string
}

// Option configures parser construction.
type Option func(*options)

// WithParser registers the arguments on p instead of a new parser. The
// Config of the record type is not applied to p.
func WithParser(p *argparse.Parser) Option {
	return func(o *options) { o.parser = p }
}

// WithLogger sets the logger receiving a debug record per registered
// argument. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProg overrides the program name shown in usage.
func WithProg(prog string) Option {
	return func(o *options) { o.prog = prog }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
