package pattern

import "go.uber.org/zap"

// DefaultMaxDepth bounds recursion when no WithMaxDepth option is given.
const DefaultMaxDepth = 100

type options struct {
	maxDepth int
	log      *zap.Logger
}

// Option configures a single compilation.
type Option func(*options)

// WithMaxDepth sets the recursion depth cap. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}

// WithLogger routes debug output of this compilation to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.log == nil {
		o.log = Logger()
	}
	return o
}
