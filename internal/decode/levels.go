package decode

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity ordinals, higher = more severe. Firmware dictionaries may use
// raw values above Fatal; they order the same way.
const (
	LevelDebug uint8 = 0
	LevelInfo  uint8 = 1
	LevelWarn  uint8 = 2
	LevelError uint8 = 3
	LevelFatal uint8 = 4

	// LevelUnknown marks entries whose template could not be resolved,
	// so no minimum level can hide them.
	LevelUnknown uint8 = 255
)

// ParseLevel accepts a level name or a raw ordinal.
func ParseLevel(s string) (uint8, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return uint8(n), nil
}

// LevelName converts an ordinal back to a display name. Raw firmware
// levels without a name render as their number.
func LevelName(l uint8) string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelUnknown:
		return "UNKNOWN"
	default:
		return strconv.Itoa(int(l))
	}
}
