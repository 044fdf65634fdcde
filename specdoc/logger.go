package specdoc

import "log/slog"

// Logger receives structured diagnostics from parsing, reference
// resolution, and conformance checking. Attributes are alternating
// key-value pairs in the log/slog convention, so any slog-style backend
// adapts directly:
//
//	p := specdoc.New()
//	p.Logger = specdoc.NewSlogAdapter(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
//
// Everywhere in apitap the zero behavior is NopLogger.
type Logger interface {
	Debug(msg string, attrs ...any)
	Info(msg string, attrs ...any)
	Warn(msg string, attrs ...any)
	Error(msg string, attrs ...any)

	// With returns a Logger that prepends attrs to every record.
	With(attrs ...any) Logger
}

// NopLogger discards everything. It is the default when no logger is
// configured.
type NopLogger struct{}

var _ Logger = NopLogger{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

func (n NopLogger) With(...any) Logger { return n }

// SlogAdapter bridges a *slog.Logger to the Logger interface.
type SlogAdapter struct {
	l *slog.Logger
}

var _ Logger = (*SlogAdapter)(nil)

// NewSlogAdapter wraps logger; nil falls back to slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{l: logger}
}

func (s *SlogAdapter) Debug(msg string, attrs ...any) { s.l.Debug(msg, attrs...) }
func (s *SlogAdapter) Info(msg string, attrs ...any)  { s.l.Info(msg, attrs...) }
func (s *SlogAdapter) Warn(msg string, attrs ...any)  { s.l.Warn(msg, attrs...) }
func (s *SlogAdapter) Error(msg string, attrs ...any) { s.l.Error(msg, attrs...) }

func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{l: s.l.With(attrs...)}
}
