package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	DefaultSQLitePath        = "data/randex.db"
	DefaultLocationsCSV      = "data/il_ilce.csv"
	DefaultTimezone          = "Europe/Istanbul"
	DefaultAppointmentsTopic = "randex.appointments"
)

// Load reads .env files into the process environment. Variables already set
// win over file values. A missing file is not an error.
func Load(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

func String(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func Int(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return def
}

func Bool(key string, def bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return def
}

// Duration accepts Go duration strings ("90s", "24h") or a bare number of seconds.
func Duration(key string, def time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// CSV splits a comma separated value, dropping empty entries.
func CSV(key string, def []string) []string {
	val := os.Getenv(key)
	if strings.TrimSpace(val) == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// SQLitePath is the database every cmd opens unless a flag overrides it.
func SQLitePath() string {
	return String("SQLITE_PATH", DefaultSQLitePath)
}

// Location resolves BOOKING_TIMEZONE. Business hours are wall-clock times in this zone.
func Location() (*time.Location, error) {
	name := String("BOOKING_TIMEZONE", DefaultTimezone)
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", name, err)
	}
	return loc, nil
}
