// Package logger holds the component loggers used across sysintel.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var (
	Main   = zerolog.Nop()
	HW     = zerolog.Nop()
	Report = zerolog.Nop()
)

// Init configures the component loggers to write human-readable lines to w
// at the given level.
func Init(level string, w io.Writer) {
	lvl := ParseLevel(level)
	zerolog.SetGlobalLevel(lvl)

	writer := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    !isTerminal(w),
		FormatLevel: func(i interface{}) string {
			if s, ok := i.(string); ok {
				return strings.ToUpper(s)
			}
			return "???"
		},
	}
	base := zerolog.New(writer).Level(lvl).With().Timestamp().Logger()

	Main = base.With().Str("component", "main").Logger()
	HW = base.With().Str("component", "hw").Logger()
	Report = base.With().Str("component", "report").Logger()

	Main.Debug().Str("level", lvl.String()).Msg("logger initialized")
}

var levels = map[string]zerolog.Level{
	"trace":    zerolog.TraceLevel,
	"debug":    zerolog.DebugLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"":         zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"disabled": zerolog.Disabled,
	"off":      zerolog.Disabled,
}

// LookupLevel maps a level name to a zerolog level.
func LookupLevel(level string) (zerolog.Level, error) {
	lvl, ok := levels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return zerolog.WarnLevel, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}

// ParseLevel is LookupLevel with unknown names yielding warn.
func ParseLevel(level string) zerolog.Level {
	lvl, _ := LookupLevel(level)
	return lvl
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
