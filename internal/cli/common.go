package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danieljhkim/gitecho/internal/clock"
	"github.com/danieljhkim/gitecho/internal/config"
	"github.com/danieljhkim/gitecho/internal/confirm"
	"github.com/danieljhkim/gitecho/internal/fsops"
	"github.com/danieljhkim/gitecho/internal/gitx"
	"github.com/danieljhkim/gitecho/internal/hook"
	"github.com/danieljhkim/gitecho/internal/logx"
	"github.com/danieljhkim/gitecho/internal/syncer"
)

// deps bundles the real implementations every command builds on.
type deps struct {
	fs      fsops.FS
	repo    gitx.Repo
	sink    logx.Sink
	hooks   *hook.Manager
	syncer  *syncer.Syncer
	logFile string
}

// newDeps creates the dependency graph with real implementations.
func newDeps() (*deps, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	fs := fsops.NewRealFS()
	settings, err := config.LoadSettings(fs, paths.SettingsFile)
	if err != nil {
		return nil, err
	}

	logFile := paths.LogFile
	if settings.LogFile != "" {
		logFile = settings.LogFile
	}

	clk := &clock.RealClock{}
	repo := gitx.NewRealRepo()
	sink := logx.NewFileSink(logFile, clk)
	poller := confirm.New(repo, clk, settings.PollInterval(), settings.ConfirmTimeout())

	return &deps{
		fs:      fs,
		repo:    repo,
		sink:    sink,
		hooks:   hook.NewManager(fs),
		syncer:  syncer.New(repo, fs, sink, poller),
		logFile: logFile,
	}, nil
}

// repoRoot discovers the enclosing repository root for the working directory.
func (d *deps) repoRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return d.repo.Discover(cwd)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
