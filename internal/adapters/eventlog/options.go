package eventlog

// Option applies a configuration option to the MemoryLog.
type Option func(*MemoryLog)

// WithStreamCapacity pre-sizes each stream's event slice.
func WithStreamCapacity(n int) Option {
	return func(l *MemoryLog) {
		if n > 0 {
			l.streamCapacity = n
		}
	}
}
