package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LogLevel int

const (
	ERROR LogLevel = iota
	WARN
	INFO
	DEBUG
)

var currentLevel = getLogLevel()

const (
	APP        = "APP"
	CHAT       = "CHAT"
	CLI        = "CLI"
	CONFIG     = "CONFIG"
	HANDLER    = "HANDLER"
	MIDDLEWARE = "MIDDLEWARE"
	OAUTH      = "OAUTH"
	REDIS      = "REDIS"
	SERVICE    = "SERVICE"
	WEBSOCKET  = "WEBSOCKET"
)

func getLogLevel() LogLevel {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func (l LogLevel) zerologLevel() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup points the global zerolog logger at w. Pretty output is meant for
// terminals; everything else gets one JSON object per line.
func Setup(w io.Writer, pretty bool) {
	currentLevel = getLogLevel()
	zerolog.SetGlobalLevel(currentLevel.zerologLevel())

	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	SetOutput(w)
}

// SetOutput replaces the destination of the global logger without touching
// the level.
func SetOutput(w io.Writer) {
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func formatMessage(format string, v ...interface{}) string {
	if len(v) == 0 {
		return format
	}
	return fmt.Sprintf(format, v...)
}

func Debug(namespace, format string, v ...interface{}) {
	if currentLevel >= DEBUG {
		log.Debug().Str("namespace", namespace).Msg(formatMessage(format, v...))
	}
}

func Info(namespace, format string, v ...interface{}) {
	if currentLevel >= INFO {
		log.Info().Str("namespace", namespace).Msg(formatMessage(format, v...))
	}
}

func Warn(namespace, format string, v ...interface{}) {
	if currentLevel >= WARN {
		log.Warn().Str("namespace", namespace).Msg(formatMessage(format, v...))
	}
}

func Error(namespace, format string, v ...interface{}) {
	if currentLevel >= ERROR {
		log.Error().Str("namespace", namespace).Msg(formatMessage(format, v...))
	}
}

// Fatal logs at fatal level but leaves exiting to the caller.
func Fatal(namespace, format string, v ...interface{}) {
	log.WithLevel(zerolog.FatalLevel).Str("namespace", namespace).Msg(formatMessage(format, v...))
}
