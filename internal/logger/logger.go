package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yukikurage/todo-api/internal/config"
)

// New builds the application logger. Development gets a colorized console
// writer; every other environment logs JSON.
func New(appEnv, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	l := zerolog.New(output(appEnv)).Level(lvl).With().Timestamp().Caller().Logger()
	log.Logger = l
	return l
}

func output(appEnv string) io.Writer {
	if appEnv == config.EnvDevelopment {
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return os.Stdout
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
