package vinyl

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

// Option configures a Cache, Layout or extraction run.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	rand       *rand.Rand
	background Color
}

func newOptions(opts []Option) options {
	o := options{
		logger:     zap.NewNop(),
		background: DefaultBackground,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRand sets the random source used for hit-test colors. Tests pass a
// seeded source to get reproducible colors.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}

// WithBackground sets the canvas color of a new Layout.
func WithBackground(c Color) Option {
	return func(o *options) { o.background = c }
}
