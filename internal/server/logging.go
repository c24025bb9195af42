package server

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Field names attached to connection events in json output.
const (
	remoteField = "remote"
	codeField   = "code"
)

// NewLogger builds the process logger.
//
// The console format prints one bare human-readable line per event: no
// timestamp, level or fields. The json format keeps every field and tags each
// line with the service name and version.
func NewLogger(w io.Writer, format, level, version string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level %q: %w", level, err)
	}

	switch format {
	case LogFormatConsole:
		out := zerolog.ConsoleWriter{
			Out:           w,
			NoColor:       true,
			PartsExclude:  []string{zerolog.TimestampFieldName, zerolog.LevelFieldName},
			FieldsExclude: []string{remoteField, codeField, "service", "version", "port", "addr"},
		}
		return zerolog.New(out).Level(lvl), nil
	case LogFormatJSON:
		return zerolog.New(w).Level(lvl).With().
			Timestamp().
			Str("service", "echoserver").
			Str("version", version).
			Logger(), nil
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
}
