package benders

// Logger receives the trace of the decomposition: one line per cut
// generator call. *log.Logger satisfies it.
type Logger interface {
	Print(v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Print(v ...interface{}) {}
