package seeder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hetulpatel/Randex/internal/domain"
)

const (
	DefaultBcryptCost  = 10
	defaultHashTimeout = 20 * time.Second

	bcryptjsScript = "console.log(require('bcryptjs').hashSync(process.argv[1], 10))"
)

// Hasher derives the password hash stored for seeded users.
type Hasher interface {
	Hash(ctx context.Context, plain string) (string, error)
}

// HasherFunc adapts a function to Hasher.
type HasherFunc func(ctx context.Context, plain string) (string, error)

func (f HasherFunc) Hash(ctx context.Context, plain string) (string, error) {
	return f(ctx, plain)
}

// BcryptHasher hashes in-process.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(_ context.Context, plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("%w: bcrypt: %w", domain.ErrExecution, err)
	}
	return string(out), nil
}

// NodeHasher shells out to node with the bcryptjs package, producing the same
// hashes as the web backend. Dir should contain node_modules/bcryptjs.
type NodeHasher struct {
	Binary  string
	Dir     string
	Timeout time.Duration
}

// NewNodeHasher resolves the binary from bin, NODE_BIN, then "node".
func NewNodeHasher(bin, dir string) *NodeHasher {
	if bin == "" {
		bin = os.Getenv("NODE_BIN")
	}
	if bin == "" {
		bin = "node"
	}
	return &NodeHasher{Binary: bin, Dir: dir, Timeout: defaultHashTimeout}
}

func (h *NodeHasher) Hash(ctx context.Context, plain string) (string, error) {
	if h == nil {
		return "", fmt.Errorf("%w: node hasher is nil", domain.ErrDependencyUnavailable)
	}
	bin, err := exec.LookPath(h.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: node binary %q not found: %w", domain.ErrDependencyUnavailable, h.Binary, err)
	}
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultHashTimeout
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(cmdCtx, bin, "-e", bcryptjsScript, plain)
	cmd.Dir = h.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// usually bcryptjs is not installed next to Dir
			return "", fmt.Errorf("%w: node bcryptjs failed (is bcryptjs installed?): %s",
				domain.ErrDependencyUnavailable, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%w: run node: %w", domain.ErrDependencyUnavailable, err)
	}
	hash := strings.TrimSpace(stdout.String())
	if hash == "" {
		return "", fmt.Errorf("%w: node produced no hash", domain.ErrExecution)
	}
	return hash, nil
}

// NewHasher picks an implementation by name: "bcrypt" (default) or "node".
func NewHasher(name, nodeBin, nodeDir string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bcrypt":
		return BcryptHasher{Cost: DefaultBcryptCost}, nil
	case "node":
		return NewNodeHasher(nodeBin, nodeDir), nil
	}
	return nil, fmt.Errorf("%w: unknown hasher %q", domain.ErrInvalid, name)
}
