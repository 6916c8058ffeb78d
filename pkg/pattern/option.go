package pattern

import (
	"time"

	"github.com/sgostarter/i/l"

	"github.com/chazu/sliceform/pkg/kernel"
	"github.com/chazu/sliceform/pkg/kernel/sdfx"
	"github.com/chazu/sliceform/pkg/layout"
	"github.com/chazu/sliceform/pkg/tessellate"
)

// DefaultSheet is the stock used when no sheet is configured.
var DefaultSheet = layout.Sheet{Width: 203, Spacing: 2}

// DefaultCacheTTL bounds how long derived slot constants are reused.
const DefaultCacheTTL = 10 * time.Minute

// Options holds the generator settings; build it with Option values.
type Options struct {
	logger   l.Wrapper
	cacheTTL time.Duration
	kernel   kernel.Kernel
	segments int
	sheet    layout.Sheet
	noChecks bool
}

// Option configures a Generator.
type Option func(o *Options)

func optionNew(option ...Option) *Options {
	opts := &Options{
		cacheTTL: DefaultCacheTTL,
		segments: tessellate.DefaultSegments,
		sheet:    DefaultSheet,
	}
	for _, o := range option {
		o(opts)
	}

	if opts.logger == nil {
		opts.logger = l.NewNopLoggerWrapper()
	}

	if opts.kernel == nil {
		opts.kernel = sdfx.New()
	}

	if opts.cacheTTL <= 0 {
		opts.cacheTTL = DefaultCacheTTL
	}

	return opts
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger l.Wrapper) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// WithCacheTTL sets how long derived constants stay cached. Non-positive
// values fall back to DefaultCacheTTL.
func WithCacheTTL(d time.Duration) Option {
	return func(o *Options) {
		o.cacheTTL = d
	}
}

// WithKernel sets the geometry kernel used by the layout checks.
func WithKernel(k kernel.Kernel) Option {
	return func(o *Options) {
		o.kernel = k
	}
}

// WithSegments sets the number of chords per arc when outlines are
// flattened for the kernel.
func WithSegments(n int) Option {
	return func(o *Options) {
		o.segments = n
	}
}

// WithSheet sets the sheet templates are laid out on.
func WithSheet(sheet layout.Sheet) Option {
	return func(o *Options) {
		o.sheet = sheet
	}
}

// WithoutChecks skips the kernel checks on the finished layout.
func WithoutChecks() Option {
	return func(o *Options) {
		o.noChecks = true
	}
}
