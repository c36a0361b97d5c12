package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var current Level = LevelInfo

// ParseLevel maps debug|info|warn|error to a Level. Unknown names fall back to info.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// InitFromEnv sets the log level based on LOG_LEVEL (debug|info|warn|error).
func InitFromEnv() {
	lvl, err := ParseLevel(os.Getenv("LOG_LEVEL"))
	current = lvl
	if err != nil {
		Warnf("%v, using info", err)
	}
}

func SetLevel(lvl Level) {
	current = lvl
}

func Debugf(format string, args ...interface{}) {
	if current <= LevelDebug {
		log.Printf("DEBUG "+format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if current <= LevelInfo {
		log.Printf(format, args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if current <= LevelWarn {
		log.Printf("WARN "+format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	log.Printf("ERROR "+format, args...)
}

func Fatalf(format string, args ...interface{}) {
	log.Fatalf(format, args...)
}
