package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hetulpatel/Randex/internal/cache"
	"github.com/hetulpatel/Randex/internal/config"
	"github.com/hetulpatel/Randex/internal/locations"
	"github.com/hetulpatel/Randex/internal/logging"
)

// Prints the province list and the province -> districts object as two JSON lines.
func main() {
	if err := config.Load(); err != nil {
		logging.Warnf("[locations] %v", err)
	}
	logging.InitFromEnv()

	csvPath := flag.String("csv", config.String("LOCATIONS_CSV", config.DefaultLocationsCSV), "province/district CSV")
	only := flag.String("only", "", "print only \"provinces\" or \"districts\"")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	loader := &locations.Loader{Path: *csvPath}
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		c, err := cache.NewRedisLocationsCache(addr,
			config.String("REDIS_PASSWORD", ""),
			config.Int("REDIS_DB", 0),
			config.Duration("LOCATIONS_CACHE_TTL", 24*time.Hour),
			"")
		if err != nil {
			logging.Warnf("[locations] cache disabled: %v", err)
		} else {
			defer c.Close()
			loader.Cache = c
		}
	}

	lookup, err := loader.Load(ctx)
	if err != nil {
		logging.Fatalf("[locations] %v", err)
	}

	var outputs []func() ([]byte, error)
	switch *only {
	case "":
		outputs = append(outputs, lookup.ProvincesJSON, lookup.DistrictsJSON)
	case "provinces":
		outputs = append(outputs, lookup.ProvincesJSON)
	case "districts":
		outputs = append(outputs, lookup.DistrictsJSON)
	default:
		fmt.Fprintf(os.Stderr, "locations: unknown -only value %q\n", *only)
		os.Exit(2)
	}
	for _, encode := range outputs {
		out, err := encode()
		if err != nil {
			logging.Fatalf("[locations] encode: %v", err)
		}
		fmt.Println(string(out))
	}
	logging.Debugf("[locations] %d provinces, %d rows from %s", len(lookup.Provinces()), lookup.Rows(), *csvPath)
}
