package ctpool

import (
	"log/slog"
	"runtime"
)

// defaultQueueCapacity mirrors the original TASKQUEUE_DEFAULT_POOLSIZE: the
// number of tasks that may sit enqueued-but-not-yet-popped at once.
const defaultQueueCapacity = 256

// defaultBarrierPoolSize bounds how many PushBarrier rendezvous points may
// be outstanding at once. A barrier is returned to the pool as soon as its
// last party departs, so this rarely needs to grow beyond a handful.
const defaultBarrierPoolSize = 8

// Config configures a ThreadPool. Zero or negative fields are normalized to
// a usable default rather than rejected — mirroring the "configure with a
// struct, then clamp" style used for pool sizing elsewhere in this package's
// lineage.
type Config struct {
	// Workers is the number of goroutines processing tasks. Zero or
	// negative is normalized to runtime.GOMAXPROCS(0).
	Workers int

	// QueueCapacity bounds how many tasks may be enqueued and not yet
	// picked up by a worker at once. Zero or negative is normalized to
	// defaultQueueCapacity.
	QueueCapacity int

	// BarrierPoolSize bounds how many concurrent PushBarrier rendezvous
	// points a ThreadPool may have outstanding. Zero or negative is
	// normalized to defaultBarrierPoolSize.
	BarrierPoolSize int

	// Logger, if set, overrides the package-level logger (see SetLogger)
	// for events raised by this one ThreadPool, such as recovered task
	// panics.
	Logger *slog.Logger
}

// Option mutates a Config during NewPool. Options are applied after Config's
// own normalization, so an Option can still override a normalized default.
type Option func(*Config)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// WithQueueCapacity sets the task queue's FIFO entry capacity.
func WithQueueCapacity(n int) Option {
	return func(c *Config) { c.QueueCapacity = n }
}

// WithBarrierPoolSize sets how many barrier rendezvous points may be
// outstanding at once.
func WithBarrierPoolSize(n int) Option {
	return func(c *Config) { c.BarrierPoolSize = n }
}

// WithLogger overrides the logger used by a single ThreadPool instance.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// normalize clamps zero/negative fields to their defaults, matching
// eliastor's NewPool pattern of tolerating an under-specified config rather
// than failing outright.
func (c Config) normalize() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = defaultQueueCapacity
	}
	if c.BarrierPoolSize <= 0 {
		c.BarrierPoolSize = defaultBarrierPoolSize
	}
	return c
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log()
}
