package oroboro

// engineOptions holds configuration resolved at Engine construction time.
type engineOptions struct {
	metricsEnabled bool
	logger         *Logger
	readyQueueCap  int
}

// Option configures an Engine constructed via New.
type Option interface {
	applyEngine(*engineOptions) error
}

type optionFunc func(*engineOptions) error

func (f optionFunc) applyEngine(o *engineOptions) error { return f(o) }

// WithMetrics enables runtime counters on the Engine, retrievable via
// Engine.Metrics. Disabled by default; recording a handful of counters is
// cheap, but leaving it off keeps the hot scheduling loop allocation-free
// for callers that never inspect the counters.
func WithMetrics(enabled bool) Option {
	return optionFunc(func(o *engineOptions) error {
		o.metricsEnabled = enabled
		return nil
	})
}

// WithLogger attaches a structured logger to the Engine. Every scheduler
// and evaluator lifecycle event (task spawned, event posted, outcome
// emitted) is logged through it at an appropriate level. A nil logger is
// equivalent to omitting the option: the Engine falls back to a no-op
// logger, per NewNoOpLogger.
func WithLogger(logger *Logger) Option {
	return optionFunc(func(o *engineOptions) error {
		o.logger = logger
		return nil
	})
}

// WithReadyQueueCapacity preallocates the ready queue's backing array.
// Purely a performance hint; the queue grows past this capacity as needed.
func WithReadyQueueCapacity(n int) Option {
	return optionFunc(func(o *engineOptions) error {
		if n > 0 {
			o.readyQueueCap = n
		}
		return nil
	})
}

// resolveOptions applies Option values over the zero-value defaults,
// skipping nil options gracefully (a caller building an option slice
// conditionally should not need to filter out nils itself).
func resolveOptions(opts []Option) (*engineOptions, error) {
	cfg := &engineOptions{
		readyQueueCap: 64,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyEngine(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = NewNoOpLogger()
	}
	return cfg, nil
}
