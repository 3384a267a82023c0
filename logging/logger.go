package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/crytic/concolic/logging/colors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// GlobalLogger describes a Logger that is disabled by default and is instantiated when the runtime is configured. Each
// module/package should create its own sub-logger. This allows to create unique logging instances depending on the
// use case.
var GlobalLogger = NewLogger(zerolog.Disabled)

// Logger describes a custom logging object that can log events to any arbitrary channel in structured, unstructured,
// or unstructured and colorized format.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// context describes the key-value pairs attached to every log event, in the order they were added.
	context [][2]string

	// structuredLogger describes a logger that will output structured JSON to structuredWriters.
	structuredLogger zerolog.Logger
	// structuredWriters describes the channels which receive structured JSON output.
	structuredWriters []io.Writer

	// unstructuredLogger describes a logger that will output uncolored, human-readable logs to unstructuredWriters.
	unstructuredLogger zerolog.Logger
	// unstructuredWriters describes the channels which receive uncolored, human-readable output.
	unstructuredWriters []io.Writer

	// unstructuredColorLogger describes a logger that will output colorized, human-readable logs to
	// unstructuredColorWriters.
	unstructuredColorLogger zerolog.Logger
	// unstructuredColorWriters describes the channels which receive colored, human-readable output.
	unstructuredColorWriters []io.Writer
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. The Logger has no writers until AddWriter is
// called, so it does not output anything by default.
func NewLogger(level zerolog.Level) *Logger {
	l := &Logger{
		level:                    level,
		context:                  make([][2]string, 0),
		structuredWriters:        make([]io.Writer, 0),
		unstructuredWriters:      make([]io.Writer, 0),
		unstructuredColorWriters: make([]io.Writer, 0),
	}
	l.rebuild()
	return l
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. The expected use of this
// function is for each package to have their own unique logger so that parsing of logs is "grep-able" based on some
// key. The sub-logger shares the writers of its parent at the time of creation.
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	sub := &Logger{
		level:                    l.level,
		context:                  append(slices.Clone(l.context), [2]string{key, value}),
		structuredWriters:        slices.Clone(l.structuredWriters),
		unstructuredWriters:      slices.Clone(l.unstructuredWriters),
		unstructuredColorWriters: slices.Clone(l.unstructuredColorWriters),
	}
	sub.rebuild()
	return sub
}

// AddWriter will add a writer to the list of channels where log output will be sent. If the writer was already added
// with the same format and coloring, this function is a no-op. The colored flag is ignored for structured output.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writersFor(format, colored)
	if slices.Contains(*writers, writer) {
		return
	}
	*writers = append(*writers, writer)
	l.rebuild()
}

// RemoveWriter will remove a writer from the list of writers that the logger manages. If the writer does not exist,
// this function is a no-op
func (l *Logger) RemoveWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writersFor(format, colored)
	if i := slices.Index(*writers, writer); i >= 0 {
		*writers = slices.Delete(*writers, i, i+1)
		l.rebuild()
	}
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.rebuild()
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.log(zerolog.TraceLevel, args...)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.log(zerolog.DebugLevel, args...)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.log(zerolog.InfoLevel, args...)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.log(zerolog.WarnLevel, args...)
}

// Error is a wrapper function that will log an error event.
func (l *Logger) Error(args ...any) {
	l.log(zerolog.ErrorLevel, args...)
}

// Panic is a wrapper function that will log a panic event. The panic is raised after every channel received the
// log.
func (l *Logger) Panic(args ...any) {
	l.log(zerolog.PanicLevel, args...)
}

// log builds the messages for every output format and sends them off at the provided level.
func (l *Logger) log(level zerolog.Level, args ...any) {
	// Build the messages and retrieve any error or associated structured log info
	coloredMsg, msg, err, info := buildMsgs(args...)

	// Stack traces are attached when debugging, or when the event is a panic
	withStack := l.level <= zerolog.DebugLevel || level == zerolog.PanicLevel

	// Instantiate log events. WithLevel never panics on its own, so every channel receives the log before a panic is
	// raised below.
	events := []struct {
		event *zerolog.Event
		msg   string
	}{
		{l.structuredLogger.WithLevel(level), msg},
		{l.unstructuredLogger.WithLevel(level), msg},
		{l.unstructuredColorLogger.WithLevel(level), coloredMsg},
	}
	for _, e := range events {
		chainEvent(e.event, err, info, withStack).Msg(e.msg)
	}

	if level == zerolog.PanicLevel {
		panic(msg)
	}
}

// writersFor returns the list of writers managing the provided format and coloring.
func (l *Logger) writersFor(format LogFormat, colored bool) *[]io.Writer {
	if format == STRUCTURED {
		return &l.structuredWriters
	}
	if colored {
		return &l.unstructuredColorWriters
	}
	return &l.unstructuredWriters
}

// rebuild recreates the underlying zerolog loggers from the current level, context and writers.
func (l *Logger) rebuild() {
	// Structured output carries a timestamp
	l.structuredLogger = l.newZerologLogger(l.structuredWriters, func(w io.Writer) io.Writer { return w }).
		With().Timestamp().Logger()

	// Unstructured output is wrapped into console writers
	l.unstructuredLogger = l.newZerologLogger(l.unstructuredWriters, func(w io.Writer) io.Writer {
		return setupDefaultFormatting(zerolog.ConsoleWriter{Out: w, NoColor: true}, l.level, false)
	})
	l.unstructuredColorLogger = l.newZerologLogger(l.unstructuredColorWriters, func(w io.Writer) io.Writer {
		return setupDefaultFormatting(zerolog.ConsoleWriter{Out: w, NoColor: !colors.Enabled()}, l.level, true)
	})
}

// newZerologLogger creates a zerolog.Logger writing to every provided writer, wrapped by wrap. If no writers are
// provided, the returned logger is disabled.
func (l *Logger) newZerologLogger(writers []io.Writer, wrap func(io.Writer) io.Writer) zerolog.Logger {
	if len(writers) == 0 {
		return zerolog.Nop()
	}

	wrapped := make([]io.Writer, 0, len(writers))
	for _, w := range writers {
		wrapped = append(wrapped, wrap(w))
	}
	logger := zerolog.New(zerolog.MultiLevelWriter(wrapped...)).Level(l.level)

	ctx := logger.With()
	for _, kv := range l.context {
		ctx = ctx.Str(kv[0], kv[1])
	}
	return ctx.Logger()
}

// buildMsgs describes a function that takes in a variadic list of arguments of any type and returns two strings and,
// optionally, an error and a StructuredLogInfo object. The first string will be a colorized-string that can be used for
// console logging while the second string will be a non-colorized one that can be used for file/structured logging.
// The error and the StructuredLogInfo can be used to add additional context to log messages
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	// Guard clause
	if len(args) == 0 {
		return "", "", nil, nil
	}

	// Initialize the base color context, the string buffers and the structured log info object
	colorCtx := colors.Reset
	consoleOutput := make([]string, 0)
	fileOutput := make([]string, 0)
	var info StructuredLogInfo
	var err error

	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			// If the argument is a color function, switch the current color context
			colorCtx = t
		case StructuredLogInfo:
			// Note that only one structured log info can be provided for each log message
			info = t
		case error:
			// Note that only one error can be provided for each log message
			err = t
		case *LogBuffer:
			// Buffers are flattened in place and keep their own color context
			c, f, _, _ := buildMsgs(t.Args()...)
			consoleOutput = append(consoleOutput, c)
			fileOutput = append(fileOutput, f)
		default:
			// In the base case, append the object to the two string buffers. The console string buffer will have the
			// current color context applied to it.
			consoleOutput = append(consoleOutput, colorCtx(t))
			fileOutput = append(fileOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(fileOutput, ""), err, info
}

// chainEvent is a helper function that chains an error, its stack trace, and any StructuredLogInfo to a log event.
func chainEvent(event *zerolog.Event, err error, info StructuredLogInfo, withStack bool) *zerolog.Event {
	// Note that even if err is nil, there will not be a panic here
	event.Err(err)
	if withStack && err != nil {
		event.Stack()
	}
	if info != nil {
		event.Any("info", info)
	}
	return event
}

// setupDefaultFormatting will update a console writer's formatting to the standard console format
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level, colored bool) zerolog.ConsoleWriter {
	// Get rid of the timestamp for console output
	writer.FormatTimestamp = func(i any) string {
		return ""
	}

	// We will define a custom format for each level
	writer.FormatLevel = func(i any) string {
		s, _ := i.(string)
		level, err := zerolog.ParseLevel(s)
		if err != nil {
			return s
		}

		paint := colors.Reset
		var text string
		switch level {
		case zerolog.TraceLevel:
			paint, text = colors.CyanBold, zerolog.LevelTraceValue
		case zerolog.DebugLevel:
			paint, text = colors.BlueBold, zerolog.LevelDebugValue
		case zerolog.InfoLevel:
			paint, text = colors.GreenBold, colors.LEFT_ARROW
		case zerolog.WarnLevel:
			paint, text = colors.YellowBold, zerolog.LevelWarnValue
		case zerolog.ErrorLevel:
			paint, text = colors.RedBold, zerolog.LevelErrorValue
		case zerolog.FatalLevel:
			paint, text = colors.RedBold, zerolog.LevelFatalValue
		default:
			paint, text = colors.RedBold, zerolog.LevelPanicValue
		}
		if !colored {
			return text
		}
		return paint(text)
	}

	// If we are above debug level, we want to get rid of the `module` component when logging to console
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module"}
	}

	return writer
}
