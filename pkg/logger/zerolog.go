package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0664

// LogBuild configures a zerolog-backed Logger before it is made.
type LogBuild struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

// ZerologHandler adapts a zerolog.Logger to the Logger interface.
type ZerologHandler struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

// New starts a builder writing to stdout at the info level.
func New() *LogBuild {
	return &LogBuild{writer: os.Stdout, level: zerolog.InfoLevel}
}

// FromPath appends log output to the file at path.
func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

// FromBuffer writes log output to w.
func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// WithLevel sets the minimum level that is written.
func (build *LogBuild) WithLevel(level zerolog.Level) *LogBuild {
	build.level = level
	return build
}

// Make builds the handler. When a path was given the file is opened for
// append and takes precedence over any buffer.
func (build *LogBuild) Make() (handler *ZerologHandler, err error) {
	handler = new(ZerologHandler)
	writer := build.writer
	if build.path != "" {
		handler.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		writer = zerolog.SyncWriter(handler.LogFile)
	}
	handler.Logger = zerolog.New(writer).Level(build.level).With().Timestamp().Logger()
	return
}

func (h *ZerologHandler) Error(msg string, args ...any) { emit(h.Logger.Error(), msg, args) }
func (h *ZerologHandler) Warn(msg string, args ...any)  { emit(h.Logger.Warn(), msg, args) }
func (h *ZerologHandler) Info(msg string, args ...any)  { emit(h.Logger.Info(), msg, args) }
func (h *ZerologHandler) Debug(msg string, args ...any) { emit(h.Logger.Debug(), msg, args) }

func emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, args[i+1])
	}
	ev.Msg(msg)
}
