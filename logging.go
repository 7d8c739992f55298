// logging.go wires the engine's structured logging onto logiface, a
// generic logging facade, backed by stumpy, its companion
// low-allocation JSON writer.
//
// Categories narrow to this engine's own lifecycle: "event", "task",
// "assert".
package oroboro

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the concrete logiface logger type used throughout the engine,
// parameterized over stumpy's event type.
type Logger = logiface.Logger[*stumpy.Event]

// NewLogger builds a Logger writing newline-delimited JSON to w at the
// given minimum level, using the stumpy backend.
func NewLogger(w io.Writer, level logiface.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return logiface.New[*stumpy.Event](
		stumpy.WithStumpy(stumpy.WithWriter(w)),
		logiface.WithLevel[*stumpy.Event](level),
	)
}

// NewNoOpLogger returns a Logger with logging disabled, the default when
// no WithLogger option is supplied to New.
func NewNoOpLogger() *Logger {
	return logiface.New[*stumpy.Event](
		logiface.WithLevel[*stumpy.Event](logiface.LevelDisabled),
	)
}

// newEngineTag returns a short correlation ID attached to every log line
// emitted by one Engine instance, so logs from several short-lived engines
// (e.g. one per test case) interleaved in one stream can be told apart.
func newEngineTag() string {
	return uuid.NewString()
}

// logTask logs a task-lifecycle event at Debug level.
func logTask(l *Logger, engineTag, event string, taskID uint64) {
	l.Debug().Str("category", "task").Str("engine", engineTag).Str("event", event).Uint64("id", taskID).Log("")
}

// logDirective logs a single directive dispatch at Trace level: one line
// per Step call that yields WaitEvent, WaitTimeout, Spawn, Emit, or Done.
func logDirective(l *Logger, engineTag, directive string, taskID uint64) {
	l.Trace().Str("category", "task").Str("engine", engineTag).Str("directive", directive).Uint64("id", taskID).Log("")
}

// logEventLifecycle logs an Event post/wait lifecycle entry at Debug level.
func logEventLifecycle(l *Logger, engineTag, event string, eventID uint64, waiters int) {
	l.Debug().Str("category", "event").Str("engine", engineTag).Str("event", event).Uint64("id", eventID).Int("waiters", waiters).Log("")
}

// logOutcome logs a match or failure emitted by always: a match at Notice
// level, a failure at Warning level.
func logOutcome(l *Logger, engineTag string, matched bool, start, end VirtualTime) {
	b := l.Notice()
	if !matched {
		b = l.Warning()
	}
	b.Str("category", "assert").Str("engine", engineTag).Bool("matched", matched).
		Int64("start", int64(start)).Int64("end", int64(end)).Log("")
}
