// Package logger is the engine's logging subsystem.
// Messages written during a frame are buffered and reach the sink when Update
// runs, once per frame.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Field is a structured key/value attached to a message.
type Field struct {
	Key   string
	Value interface{}
}

// WithField creates a new field
func WithField(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Options configures a Logger.
type Options struct {
	Level         string
	File          string
	Output        io.Writer
	DisableColors bool
}

type entry struct {
	level  logrus.Level
	msg    string
	fields logrus.Fields
	at     time.Time
}

// Logger buffers messages until Update flushes them to logrus.
type Logger struct {
	base *logrus.Logger
	sink *sinkWriter
	file *os.File

	mu      sync.Mutex
	pending []entry
	now     func() time.Time
}

// New creates a logger writing to stdout, plus File when set.
func New(opts Options) (*Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var file *os.File
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		file = f
		out = io.MultiWriter(out, f)
	}

	l := newLogger(out, opts.DisableColors)
	l.file = file
	if err := l.SetLevel(opts.Level); err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

// NewWithOutput creates an uncolored logger over w (for tests and tools).
func NewWithOutput(level string, w io.Writer) *Logger {
	l := newLogger(w, true)
	if err := l.SetLevel(level); err != nil {
		l.base.SetLevel(logrus.InfoLevel)
	}
	return l
}

func newLogger(out io.Writer, disableColors bool) *Logger {
	sink := &sinkWriter{w: out}
	base := logrus.New()
	base.SetOutput(sink)
	base.SetFormatter(&Formatter{TimestampFormat: "15:04:05.000", DisableColors: disableColors})
	base.SetLevel(logrus.InfoLevel)
	return &Logger{base: base, sink: sink, now: time.Now}
}

// SetLevel changes the minimum level. An empty level means info.
func (l *Logger) SetLevel(level string) error {
	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	l.base.SetLevel(parsed)
	return nil
}

// Level returns the current minimum level name.
func (l *Logger) Level() string { return l.base.GetLevel().String() }

// Info logs informational messages.
func (l *Logger) Info(msg string, fields ...Field) { l.push(logrus.InfoLevel, msg, fields) }

// Warn logs warning messages.
func (l *Logger) Warn(msg string, fields ...Field) { l.push(logrus.WarnLevel, msg, fields) }

// Error logs error messages.
func (l *Logger) Error(msg string, fields ...Field) { l.push(logrus.ErrorLevel, msg, fields) }

// Debug logs debug messages.
func (l *Logger) Debug(msg string, fields ...Field) { l.push(logrus.DebugLevel, msg, fields) }

// Event logs a game event attributed to actor.
func (l *Logger) Event(eventType string, actorID string, details string) {
	l.push(logrus.InfoLevel, details, []Field{
		{Key: "event", Value: eventType},
		{Key: "actor", Value: actorID},
	})
}

func (l *Logger) push(level logrus.Level, msg string, fields []Field) {
	if !l.base.IsLevelEnabled(level) {
		return
	}
	var data logrus.Fields
	if len(fields) > 0 {
		data = make(logrus.Fields, len(fields))
		for _, f := range fields {
			data[f.Key] = f.Value
		}
	}
	l.mu.Lock()
	l.pending = append(l.pending, entry{level: level, msg: msg, fields: data, at: l.now()})
	l.mu.Unlock()
}

// Pending returns the number of buffered messages.
func (l *Logger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Update writes every buffered message in order. A sink failure is returned
// after the whole batch has been attempted.
func (l *Logger) Update() error {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, e := range batch {
		l.base.WithFields(e.fields).WithTime(e.at).Log(e.level, e.msg)
	}
	if err := l.sink.takeErr(); err != nil {
		return fmt.Errorf("log sink: %w", err)
	}
	return nil
}

// Close flushes and releases the log file, if any.
func (l *Logger) Close() error {
	err := l.Update()
	if l.file != nil {
		if cerr := l.file.Close(); err == nil {
			err = cerr
		}
		l.file = nil
	}
	return err
}

type sinkWriter struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil {
		s.mu.Lock()
		if s.err == nil {
			s.err = err
		}
		s.mu.Unlock()
	}
	return n, err
}

func (s *sinkWriter) takeErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.err
	s.err = nil
	return err
}

// Formatter renders one line per entry with a colored level tag.
type Formatter struct {
	TimestampFormat string
	DisableColors   bool
}

// Format implements logrus.Formatter
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var levelColor *color.Color
	switch entry.Level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		levelColor = color.New(color.FgRed, color.Bold)
	case logrus.WarnLevel:
		levelColor = color.New(color.FgYellow, color.Bold)
	case logrus.InfoLevel:
		levelColor = color.New(color.FgCyan)
	default:
		levelColor = color.New(color.FgWhite, color.Faint)
	}
	levelText := strings.ToUpper(entry.Level.String())
	if !f.DisableColors {
		levelText = levelColor.Sprint(levelText)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[EMERALD] [%s] %s: %s", entry.Time.Format(f.TimestampFormat), levelText, entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, entry.Data[k]))
		}
		fields := " {" + strings.Join(parts, ", ") + "}"
		if !f.DisableColors {
			fields = color.New(color.FgWhite, color.Faint).Sprint(fields)
		}
		b.WriteString(fields)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}
