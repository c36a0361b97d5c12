package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/hetulpatel/Randex/internal/config"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/seeder"
)

func main() {
	if err := config.Load(); err != nil {
		logging.Warnf("[randex-db] %v", err)
	}
	logging.InitFromEnv()

	dbPath := flag.String("db-path", "", "database file to reset (required)")
	dump := flag.String("sql-dump", "", "SQL dump to load after the reset")
	withDummy := flag.Bool("with-dummy", false, "insert illustrative data after the reset")
	hasherName := flag.String("hasher", config.String("SEED_HASHER", "bcrypt"), "password hasher for seeded users: bcrypt (in-process, no external service) or node (bcryptjs via node; seeding fails if it is unavailable)")
	nodeBin := flag.String("node", config.String("NODE_BIN", "node"), "node binary used by -hasher node")
	nodeDir := flag.String("node-dir", "", "directory with node_modules/bcryptjs for -hasher node")
	sqlite3Bin := flag.String("sqlite3", config.String("SQLITE3_BIN", "sqlite3"), "sqlite3 CLI used to load dumps; falls back to the embedded driver")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "randex_db: -db-path is required")
		flag.Usage()
		os.Exit(2)
	}

	hasher, err := seeder.NewHasher(*hasherName, *nodeBin, *nodeDir)
	if err != nil {
		logging.Fatalf("[randex-db] %v", err)
	}
	manager := &seeder.Manager{Hasher: hasher, Executor: seeder.PreferCLI(*sqlite3Bin)}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := manager.Run(ctx, seeder.Options{DBPath: *dbPath, DumpPath: *dump, WithDummy: *withDummy})
	if err != nil {
		logging.Fatalf("[randex-db] %v", err)
	}

	tables := make([]string, 0, len(report.Counts))
	for table := range report.Counts {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		logging.Infof("[randex-db] %-18s %d rows", table, report.Counts[table])
	}
	logging.Infof("[randex-db] database ready at %s", *dbPath)
	if report.Seeded {
		fmt.Printf("Dev credentials: owner1@example.com / %s, cust1@example.com / %s\n", seeder.DevPassword, seeder.DevPassword)
	}
}
