package godisruptor

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper over zerolog.Logger. The pipeline is silent by
// default (writes to io.Discard) so that embedding it in another program
// never produces unsolicited output — a caller opts in with WithLogger.
type Logger struct {
	z zerolog.Logger
}

// NewLogger builds a Logger writing JSON lines to w at the given level.
func NewLogger(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{z: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

func newDiscardLogger() *Logger {
	return &Logger{z: zerolog.New(io.Discard).Level(zerolog.Disabled)}
}

func (l *Logger) event(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

func (l *Logger) Debug(msg string, kv ...any) { l.event(l.z.Debug(), msg, kv) }
func (l *Logger) Info(msg string, kv ...any)  { l.event(l.z.Info(), msg, kv) }
func (l *Logger) Warn(msg string, kv ...any)  { l.event(l.z.Warn(), msg, kv) }
func (l *Logger) Error(msg string, kv ...any) { l.event(l.z.Error(), msg, kv) }
