package tokenizer

import (
	"log/slog"

	"github.com/axiomdb/axiom/internal/parallel"
)

// DefaultLogEvery is how often (in merge steps) training progress is logged.
const DefaultLogEvery = 100

type options struct {
	pre      *PreTokenizer
	counter  PairCounter
	applier  MergeApplier
	logger   *slog.Logger
	logEvery int
	onStep   StepFunc
	parallel parallel.Config
}

// Option configures a BPETokenizer or a Trainer.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		pre:      defaultPreTokenizer,
		counter:  ScanCounter{},
		applier:  ArenaMerger{},
		logEvery: DefaultLogEvery,
		parallel: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithPreTokenizer replaces the default split pattern.
func WithPreTokenizer(p *PreTokenizer) Option {
	return func(o *options) {
		if p != nil {
			o.pre = p
		}
	}
}

// WithPairCounter selects the pair counting strategy used in training.
func WithPairCounter(c PairCounter) Option {
	return func(o *options) {
		if c != nil {
			o.counter = c
		}
	}
}

// WithMergeApplier selects the rewrite strategy used in training and encoding.
func WithMergeApplier(a MergeApplier) Option {
	return func(o *options) {
		if a != nil {
			o.applier = a
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLogEvery logs training progress every n merges; 0 disables it.
func WithLogEvery(n int) Option {
	return func(o *options) {
		o.logEvery = n
	}
}

// WithStepObserver registers fn to be called after every merge step.
func WithStepObserver(fn StepFunc) Option {
	return func(o *options) {
		o.onStep = fn
	}
}

// WithParallel configures batch encoding parallelism.
func WithParallel(cfg parallel.Config) Option {
	return func(o *options) {
		o.parallel = cfg
	}
}
