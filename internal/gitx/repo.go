// Package gitx abstracts the git operations gitecho needs: repository
// discovery, remote management, remote tip lookups, and pushes.
//
// The Repo interface is the seam between the mirroring logic and the git
// binary; tests substitute FakeRepo.
package gitx

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// SkipHookEnv is set to "1" on every push gitecho issues so the installed
// pre-push hook does not re-trigger on the tool's own mirror pushes.
const SkipHookEnv = "GITECHO_SKIP_HOOK"

// Remote is a configured git remote.
type Remote struct {
	Name string
	URL  string
}

// PushOptions selects the push mode. AllRefs takes priority over Refspecs;
// with neither set the remote's default configured refspecs are pushed.
type PushOptions struct {
	// AllRefs pushes every branch and then every tag.
	AllRefs bool

	// Refspecs is an explicit refspec list; ":ref" entries delete.
	Refspecs []string
}

// Repo provides the git operations gitecho depends on.
type Repo interface {
	// Discover finds the git repository root starting from cwd.
	// Returns ErrNotARepository when cwd is not inside a repository.
	Discover(cwd string) (root string, err error)

	// Remotes lists the configured remotes of the repository at root.
	Remotes(root string) ([]Remote, error)

	// CreateRemote adds a named remote.
	CreateRemote(root, name, url string) error

	// DeleteRemote removes a named remote.
	DeleteRemote(root, name string) error

	// LsRemoteSHA returns the SHA the named remote currently advertises for
	// ref, or "" when the remote does not advertise it. A non-nil error means
	// the lookup itself failed and the tip is unknown.
	LsRemoteSHA(root, remote, ref string) (string, error)

	// Push pushes to the named remote under forced non-interactive
	// credential behavior, with SkipHookEnv set.
	Push(root, remote string, opts PushOptions) error
}

// RealRepo implements Repo by shelling out to the git binary.
type RealRepo struct{}

// NewRealRepo creates a new RealRepo.
func NewRealRepo() *RealRepo {
	return &RealRepo{}
}

// Discover finds the git repository root by walking up from cwd looking for
// a .git entry.
func (g *RealRepo) Discover(cwd string) (string, error) {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absPath
	for {
		gitDir := filepath.Join(current, ".git")
		if info, err := os.Stat(gitDir); err == nil {
			// .git can be a directory or a file (worktrees, submodules).
			if info.IsDir() || info.Mode().IsRegular() {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNotARepository
		}
		current = parent
	}
}

// runGit executes a git command in the repository at root.
func (g *RealRepo) runGit(root string, env []string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = root
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", args[0], err)
		}
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Remotes lists the configured remotes with their fetch URLs.
func (g *RealRepo) Remotes(root string) ([]Remote, error) {
	out, err := g.runGit(root, nil, "remote", "-v")
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}

	var remotes []Remote
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		// "<name> <url> (fetch)" / "<name> <url> (push)"
		if len(fields) != 3 || fields[2] != "(fetch)" {
			continue
		}
		remotes = append(remotes, Remote{Name: fields[0], URL: fields[1]})
	}
	return remotes, nil
}

// CreateRemote adds a named remote.
func (g *RealRepo) CreateRemote(root, name, url string) error {
	if _, err := g.runGit(root, nil, "remote", "add", name, url); err != nil {
		return fmt.Errorf("failed to add remote %s: %w", name, err)
	}
	return nil
}

// DeleteRemote removes a named remote.
func (g *RealRepo) DeleteRemote(root, name string) error {
	if _, err := g.runGit(root, nil, "remote", "remove", name); err != nil {
		return fmt.Errorf("failed to remove remote %s: %w", name, err)
	}
	return nil
}

// LsRemoteSHA queries the remote's advertised tip for ref.
func (g *RealRepo) LsRemoteSHA(root, remote, ref string) (string, error) {
	out, err := g.runGit(root, pushEnv(), "ls-remote", remote, ref)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", nil
	}

	fields := strings.Fields(strings.Split(out, "\n")[0])
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

// Push pushes to the named remote.
//
// AllRefs issues two pushes because branches and tags replicate through
// separate transport calls. An explicit refspec list is a single push and is
// the only mode that can encode deletions.
func (g *RealRepo) Push(root, remote string, opts PushOptions) error {
	env := pushEnv()

	if opts.AllRefs {
		if _, err := g.runGit(root, env, "push", remote, "--all"); err != nil {
			return err
		}
		_, err := g.runGit(root, env, "push", remote, "--tags")
		return err
	}

	if len(opts.Refspecs) > 0 {
		args := append([]string{"push", remote}, opts.Refspecs...)
		_, err := g.runGit(root, env, args...)
		return err
	}

	_, err := g.runGit(root, env, "push", remote)
	return err
}

// pushEnv forces non-interactive credential behavior so a hanging prompt
// never blocks a detached background session, and guards against the
// installed hook re-triggering on our own pushes.
func pushEnv() []string {
	return []string{
		"GIT_TERMINAL_PROMPT=0",
		"GIT_SSH_COMMAND=ssh -oBatchMode=yes",
		SkipHookEnv + "=1",
	}
}

// FakeRepo is a test double that records operations without running git.
type FakeRepo struct {
	// Root is returned by Discover.
	Root string

	// RemoteList is returned by Remotes and mutated by Create/DeleteRemote.
	RemoteList []Remote

	// Tips maps "<remote> <ref>" to the advertised SHA. A missing key means
	// the remote does not advertise the ref.
	Tips map[string]string

	// TipFunc, when set, overrides Tips for LsRemoteSHA.
	TipFunc func(remote, ref string) (string, error)

	// PushErrs maps remote name to the error Push returns for it.
	PushErrs map[string]error

	// Configurable errors.
	DiscoverErr error
	RemotesErr  error
	CreateErr   error
	DeleteErr   error
	TipErr      error

	// Recorded calls.
	PushCalls   []PushCall
	CreateCalls []CreateRemoteCall
	DeleteCalls []string
	TipCalls    []TipCall
}

// PushCall records one Push invocation.
type PushCall struct {
	Root   string
	Remote string
	Opts   PushOptions
}

// CreateRemoteCall records one CreateRemote invocation.
type CreateRemoteCall struct {
	Root string
	Name string
	URL  string
}

// TipCall records one LsRemoteSHA invocation.
type TipCall struct {
	Remote string
	Ref    string
}

// NewFakeRepo creates a FakeRepo rooted at root.
func NewFakeRepo(root string) *FakeRepo {
	return &FakeRepo{
		Root:     root,
		Tips:     make(map[string]string),
		PushErrs: make(map[string]error),
	}
}

// Discover returns the predetermined root.
func (f *FakeRepo) Discover(cwd string) (string, error) {
	if f.DiscoverErr != nil {
		return "", f.DiscoverErr
	}
	return f.Root, nil
}

// Remotes returns the configured remote list.
func (f *FakeRepo) Remotes(root string) ([]Remote, error) {
	if f.RemotesErr != nil {
		return nil, f.RemotesErr
	}
	out := make([]Remote, len(f.RemoteList))
	copy(out, f.RemoteList)
	return out, nil
}

// CreateRemote records the call and appends to the remote list.
func (f *FakeRepo) CreateRemote(root, name, url string) error {
	f.CreateCalls = append(f.CreateCalls, CreateRemoteCall{Root: root, Name: name, URL: url})
	if f.CreateErr != nil {
		return f.CreateErr
	}
	for _, r := range f.RemoteList {
		if r.Name == name {
			return ErrRemoteExists
		}
	}
	f.RemoteList = append(f.RemoteList, Remote{Name: name, URL: url})
	return nil
}

// DeleteRemote records the call and drops the remote from the list.
func (f *FakeRepo) DeleteRemote(root, name string) error {
	f.DeleteCalls = append(f.DeleteCalls, name)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	kept := f.RemoteList[:0]
	for _, r := range f.RemoteList {
		if r.Name != name {
			kept = append(kept, r)
		}
	}
	f.RemoteList = kept
	return nil
}

// LsRemoteSHA resolves the tip from TipFunc or the Tips map.
func (f *FakeRepo) LsRemoteSHA(root, remote, ref string) (string, error) {
	f.TipCalls = append(f.TipCalls, TipCall{Remote: remote, Ref: ref})
	if f.TipErr != nil {
		return "", f.TipErr
	}
	if f.TipFunc != nil {
		return f.TipFunc(remote, ref)
	}
	return f.Tips[remote+" "+ref], nil
}

// Push records the call and returns the configured per-remote error.
func (f *FakeRepo) Push(root, remote string, opts PushOptions) error {
	f.PushCalls = append(f.PushCalls, PushCall{Root: root, Remote: remote, Opts: opts})
	return f.PushErrs[remote]
}
