// Package syncer runs one mirror-synchronization session: load the captured
// ref updates, gate on origin confirmation, then replay the updates onto
// every managed mirror.
package syncer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/danieljhkim/gitecho/internal/confirm"
	"github.com/danieljhkim/gitecho/internal/fsops"
	"github.com/danieljhkim/gitecho/internal/gitx"
	"github.com/danieljhkim/gitecho/internal/logx"
	"github.com/danieljhkim/gitecho/internal/naming"
	"github.com/danieljhkim/gitecho/internal/refs"
)

// ContinueOnOriginRejectEnv, when set truthy, lets a background session push
// to mirrors even though origin confirmation timed out.
const ContinueOnOriginRejectEnv = "GITECHO_CONTINUE_ON_ORIGIN_REJECT"

// Syncer executes synchronization sessions.
type Syncer struct {
	repo   gitx.Repo
	fs     fsops.FS
	sink   logx.Sink
	poller *confirm.Poller
}

// New creates a Syncer.
func New(repo gitx.Repo, fs fsops.FS, sink logx.Sink, poller *confirm.Poller) *Syncer {
	return &Syncer{repo: repo, fs: fs, sink: sink, poller: poller}
}

// Run executes one session.
//
// The capture artifact is consumed (and deleted) unconditionally, before any
// early return, so aborted sessions never leave artifacts to be replayed.
// Confirmation, when it runs, always completes or times out before the first
// mirror push. Per-mirror failures are isolated: every mirror is attempted.
func (s *Syncer) Run(ctx context.Context, req *Request) (*Result, error) {
	if req.RepoRoot == "" {
		return nil, fmt.Errorf("repo root is required")
	}

	updates := refs.Load(s.fs, req.RefsFile)
	refspecs := refs.BuildRefspecs(updates)

	remotes, err := s.repo.Remotes(req.RepoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}

	var mirrors []gitx.Remote
	for _, r := range remotes {
		if naming.IsMirror(r.Name) {
			mirrors = append(mirrors, r)
		}
	}

	result := &Result{RefspecCount: len(refspecs)}
	if len(mirrors) == 0 {
		result.NoMirrors = true
		return result, nil
	}

	if req.Background {
		s.sink.Log(logx.LevelInfo, fmt.Sprintf("Background sync started for %s", req.RepoRoot))

		if naming.IsMirror(req.OriginRemote) {
			s.sink.Log(logx.LevelInfo, fmt.Sprintf("Skipped sync for mirror-triggered push on %s.", req.OriginRemote))
			result.SkippedMirrorTriggered = true
			return result, nil
		}

		if len(updates) > 0 {
			if !s.poller.Confirmed(req.RepoRoot, req.OriginRemote, updates) {
				result.ConfirmationTimedOut = true
				if continueOnOriginReject() {
					s.sink.Log(logx.LevelWarn, fmt.Sprintf(
						"Origin refs not confirmed in time, but continuing because %s=1.", ContinueOnOriginRejectEnv))
				} else {
					s.sink.Log(logx.LevelWarn, fmt.Sprintf(
						"Skipped mirror sync: origin refs were not confirmed in time (push likely rejected). Set %s=1 to continue anyway.",
						ContinueOnOriginRejectEnv))
					return result, nil
				}
			} else {
				s.sink.Log(logx.LevelInfo, fmt.Sprintf("Origin refs confirmed on %s.", req.OriginRemote))
			}
		} else if req.RefsFile != "" && !req.AllRefs {
			s.sink.Log(logx.LevelWarn, "No ref updates were captured; falling back to default push behavior.")
		}
	}

	for _, mirror := range mirrors {
		if req.Progress != nil {
			req.Progress(mirror.Name)
		}

		opts := gitx.PushOptions{}
		if req.AllRefs {
			opts.AllRefs = true
		} else if len(refspecs) > 0 {
			opts.Refspecs = refspecs
		}

		err := s.repo.Push(req.RepoRoot, mirror.Name, opts)
		result.Mirrors = append(result.Mirrors, MirrorResult{Mirror: mirror, Err: err})

		if req.Background {
			s.logMirrorOutcome(mirror, err, req.AllRefs, len(refspecs))
		}
	}

	return result, nil
}

func (s *Syncer) logMirrorOutcome(mirror gitx.Remote, err error, allRefs bool, refspecCount int) {
	if err != nil {
		s.sink.Log(logx.LevelError, fmt.Sprintf(
			"Failed to sync %s: %v (Ensure SSH keys or git credential helper is configured for non-interactive auth.)",
			mirror.Name, err))
		return
	}

	switch {
	case allRefs:
		s.sink.Log(logx.LevelInfo, fmt.Sprintf("Synced %s successfully (--all)", mirror.Name))
	case refspecCount > 0:
		s.sink.Log(logx.LevelInfo, fmt.Sprintf("Synced %s successfully (%d ref updates)", mirror.Name, refspecCount))
	default:
		s.sink.Log(logx.LevelInfo, fmt.Sprintf("Synced %s successfully", mirror.Name))
	}
}

// continueOnOriginReject reads the override variable. Accepted truthy values
// are 1, true, yes and on, case-insensitive.
func continueOnOriginReject() bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(ContinueOnOriginRejectEnv)))
	switch value {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
