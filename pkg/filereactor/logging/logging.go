// Package logging provides the server's process-wide async logger: a single
// writer goroutine drains a bounded queue of records, so producer threads
// (reactor loops, handler tasks) never block on I/O and log ordering is
// preserved per-producer. Producers enqueue the level, message and
// logrus.Fields as they are; the writer goroutine renders them with
// github.com/sirupsen/logrus's text formatter. Enqueue itself is O(1).
package logging

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/filereactor/pkg/filereactor/queue"
)

// Level mirrors the four levels the CLI/config surface exposes.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarning:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type record struct {
	level  logrus.Level
	fields logrus.Fields
	msg    string
}

// Logger is a single process-wide async sink. The zero value is not usable;
// construct with New.
type Logger struct {
	base *logrus.Logger
	q    *queue.Queue[record]
	done chan struct{}
}

// New opens path (or stdout if path is empty) for appending and starts the
// single writer goroutine. Call Close at shutdown to flush and join it.
func New(path string, level Level, queueDepth int) (*Logger, error) {
	base := logrus.New()
	base.SetLevel(level.logrusLevel())
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		base.SetOutput(f)
	} else {
		base.SetOutput(os.Stdout)
	}

	l := &Logger{
		base: base,
		q:    queue.New[record](queueDepth),
		done: make(chan struct{}),
	}
	go l.run()
	return l, nil
}

func (l *Logger) run() {
	defer close(l.done)
	for {
		rec, ok := l.q.Dequeue()
		if !ok {
			return
		}
		l.base.WithFields(rec.fields).Log(rec.level, rec.msg)
	}
}

// log enqueues without blocking the caller when the queue is healthy;
// TryEnqueue drops the record under sustained backpressure rather than
// stalling a reactor or handler thread, matching the non-blocking contract
// every producer depends on.
func (l *Logger) log(level logrus.Level, fields logrus.Fields, msg string) {
	l.q.TryEnqueue(record{level: level, fields: fields, msg: msg})
}

func (l *Logger) Debug(msg string, fields logrus.Fields) { l.log(logrus.DebugLevel, fields, msg) }
func (l *Logger) Info(msg string, fields logrus.Fields)  { l.log(logrus.InfoLevel, fields, msg) }
func (l *Logger) Warn(msg string, fields logrus.Fields)  { l.log(logrus.WarnLevel, fields, msg) }
func (l *Logger) Error(msg string, fields logrus.Fields) { l.log(logrus.ErrorLevel, fields, msg) }

// Close stops accepting new records, drains what's queued, and joins the
// writer goroutine.
func (l *Logger) Close() {
	l.q.Stop()
	<-l.done
}
