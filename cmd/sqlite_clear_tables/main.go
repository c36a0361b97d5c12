package main

import (
	"context"

	"github.com/hetulpatel/Randex/internal/config"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/storage/sqlite"
)

func main() {
	if err := config.Load(); err != nil {
		logging.Warnf("%v", err)
	}
	path := config.SQLitePath()
	store, err := sqlite.Open(path)
	if err != nil {
		logging.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	if err := store.ClearTables(context.Background()); err != nil {
		store.Close()
		logging.Fatalf("clear tables: %v", err)
	}
	logging.Infof("SQLite tables cleared at %s", path)
}
