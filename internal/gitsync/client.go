// Package gitsync tidies the notes directory and commits it to git when the
// watcher shuts down.
package gitsync

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/noted/internal/shellquote"
)

// ErrNotRepository is returned when the notes directory is not a git work
// tree.
var ErrNotRepository = errors.New("not a git repository")

// Client runs git commands in a working directory.
type Client struct {
	WorkDir string
	Logger  *slog.Logger
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	return &Client{WorkDir: workDir, Logger: logger}
}

// Run executes a raw git command in the working directory.
func (c *Client) Run(args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "cmd", "git "+shellquote.Join(args...), "dir", c.WorkDir)
	}

	cmd := exec.Command("git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// IsRepository reports whether the working directory has a .git entry.
func (c *Client) IsRepository() bool {
	_, err := os.Stat(filepath.Join(c.WorkDir, ".git"))
	return err == nil
}

// Add adds files or pathspecs to the stage.
func (c *Client) Add(pathspecs ...string) error {
	if len(pathspecs) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, pathspecs...)
	_, err := c.Run(args...)
	return err
}

// Commit records staged changes.
func (c *Client) Commit(msg string) error {
	_, err := c.Run("commit", "-m", msg)
	return err
}

// StagedChanges reports whether anything is staged for commit.
func (c *Client) StagedChanges() (bool, error) {
	out, err := c.Run("diff", "--cached", "--name-only")
	if err != nil {
		return false, err
	}
	return out != "", nil
}
