package seeder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hetulpatel/Randex/internal/domain"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/storage/sqlite"
)

// ScriptExecutor replays a SQL script file against a database file.
type ScriptExecutor interface {
	Execute(ctx context.Context, dbPath, scriptPath string) error
}

// CLIExecutor runs `sqlite3 <db> ".read <script>"` without a shell, so paths
// with spaces or quotes are passed through untouched.
type CLIExecutor struct {
	Binary string
}

func (e CLIExecutor) Execute(ctx context.Context, dbPath, scriptPath string) error {
	bin := e.Binary
	if bin == "" {
		bin = "sqlite3"
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-bail", dbPath, ".read "+quoteDotArg(scriptPath))
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: sqlite3 .read %s: %s", domain.ErrExecution, scriptPath, msg)
	}
	return nil
}

// quoteDotArg quotes an argument for the sqlite3 shell's dot-command parser.
func quoteDotArg(s string) string {
	if !strings.ContainsAny(s, " \t\"'\\") {
		return s
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

// InProcessExecutor runs the script through the embedded driver as one batch.
// Foreign keys are off, matching the sqlite3 shell default.
type InProcessExecutor struct{}

func (InProcessExecutor) Execute(ctx context.Context, dbPath, scriptPath string) error {
	script, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", domain.ErrIO, scriptPath, err)
	}
	store, err := sqlite.OpenForImport(dbPath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", domain.ErrIO, dbPath, err)
	}
	defer store.Close()
	if err := store.ExecScript(ctx, string(script)); err != nil {
		return fmt.Errorf("apply %s: %w", scriptPath, err)
	}
	return nil
}

// PreferCLI returns the sqlite3 CLI executor when binary is on PATH, otherwise
// the in-process one.
func PreferCLI(binary string) ScriptExecutor {
	if binary == "" {
		binary = "sqlite3"
	}
	if path, err := exec.LookPath(binary); err == nil {
		logging.Debugf("[randex-db] using sqlite3 CLI at %s", path)
		return CLIExecutor{Binary: path}
	}
	logging.Debugf("[randex-db] sqlite3 CLI not found, applying dumps in-process")
	return InProcessExecutor{}
}
