package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hetulpatel/Randex/internal/accounts"
	"github.com/hetulpatel/Randex/internal/config"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/storage/sqlite"
)

const usage = `usage:
  accounts register -email E -password P -name N -role customer|business_owner [-phone X]
  accounts login -email E -password P`

func main() {
	if err := config.Load(); err != nil {
		logging.Warnf("[accounts] %v", err)
	}
	logging.InitFromEnv()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	cmd := os.Args[1]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	dbPath := fs.String("db-path", config.SQLitePath(), "database file")
	var reg accounts.Registration
	fs.StringVar(&reg.Email, "email", "", "email")
	fs.StringVar(&reg.Password, "password", "", "password")
	fs.StringVar(&reg.Name, "name", "", "display name (register)")
	fs.StringVar(&reg.Phone, "phone", "", "phone (register)")
	fs.StringVar(&reg.Role, "role", "", "customer or business_owner (register)")
	fs.Parse(os.Args[2:])

	store, err := sqlite.Open(*dbPath)
	if err != nil {
		logging.Fatalf("[accounts] open sqlite %s: %v", *dbPath, err)
	}
	defer store.Close()
	svc := accounts.New(store)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch cmd {
	case "register":
		u, err := svc.Register(ctx, reg)
		if err != nil {
			store.Close()
			logging.Fatalf("[accounts] register: %v", err)
		}
		fmt.Printf("registered #%d %s (%s)\n", u.ID, u.Email, u.Role)
	case "login":
		u, err := svc.Authenticate(ctx, reg.Email, reg.Password)
		if err != nil {
			store.Close()
			logging.Fatalf("[accounts] login: %v", err)
		}
		fmt.Printf("ok #%d %s %s (%s)\n", u.ID, u.Email, u.Name, u.Role)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}
