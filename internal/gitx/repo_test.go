package gitx

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// gitOrSkip skips the test when no git binary is available.
func gitOrSkip(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// setupGitRepo creates a temporary git repository for testing.
func setupGitRepo(t *testing.T) string {
	t.Helper()
	gitOrSkip(t)

	dir := t.TempDir()
	runGitCmd(t, dir, "init")
	runGitCmd(t, dir, "config", "user.email", "test@example.com")
	runGitCmd(t, dir, "config", "user.name", "Test User")
	return dir
}

// setupBareRepo creates a bare repository usable as a push target.
func setupBareRepo(t *testing.T) string {
	t.Helper()
	gitOrSkip(t)

	dir := t.TempDir()
	runGitCmd(t, dir, "init", "--bare")
	return dir
}

// commitFile writes a file and commits it.
func commitFile(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	runGitCmd(t, dir, "add", name)
	runGitCmd(t, dir, "commit", "-m", "add "+name)
}

func runGitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return strings.TrimSpace(string(out))
}

func TestRealRepo_Discover(t *testing.T) {
	repo := NewRealRepo()

	t.Run("finds repo root from subdirectory", func(t *testing.T) {
		dir := setupGitRepo(t)
		sub := filepath.Join(dir, "a", "b")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatalf("failed to create subdir: %v", err)
		}

		root, err := repo.Discover(sub)
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if root != dir {
			t.Errorf("Discover returned %s, want %s", root, dir)
		}
	})

	t.Run("returns ErrNotARepository outside a repo", func(t *testing.T) {
		_, err := repo.Discover(t.TempDir())
		if !errors.Is(err, ErrNotARepository) {
			t.Errorf("expected ErrNotARepository, got %v", err)
		}
	})
}

func TestRealRepo_Remotes(t *testing.T) {
	repo := NewRealRepo()

	t.Run("lists remotes with urls", func(t *testing.T) {
		dir := setupGitRepo(t)
		runGitCmd(t, dir, "remote", "add", "origin", "git@example.com:org/repo.git")
		runGitCmd(t, dir, "remote", "add", "echo-backup", "/srv/mirror.git")

		got, err := repo.Remotes(dir)
		if err != nil {
			t.Fatalf("Remotes failed: %v", err)
		}

		want := []Remote{
			{Name: "echo-backup", URL: "/srv/mirror.git"},
			{Name: "origin", URL: "git@example.com:org/repo.git"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Remotes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty repo has no remotes", func(t *testing.T) {
		dir := setupGitRepo(t)
		got, err := repo.Remotes(dir)
		if err != nil {
			t.Fatalf("Remotes failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no remotes, got %v", got)
		}
	})
}

func TestRealRepo_CreateDeleteRemote(t *testing.T) {
	repo := NewRealRepo()
	dir := setupGitRepo(t)

	if err := repo.CreateRemote(dir, "echo-test", "/srv/mirror.git"); err != nil {
		t.Fatalf("CreateRemote failed: %v", err)
	}

	remotes, err := repo.Remotes(dir)
	if err != nil {
		t.Fatalf("Remotes failed: %v", err)
	}
	if len(remotes) != 1 || remotes[0].Name != "echo-test" {
		t.Fatalf("unexpected remotes after create: %v", remotes)
	}

	if err := repo.DeleteRemote(dir, "echo-test"); err != nil {
		t.Fatalf("DeleteRemote failed: %v", err)
	}

	remotes, err = repo.Remotes(dir)
	if err != nil {
		t.Fatalf("Remotes failed: %v", err)
	}
	if len(remotes) != 0 {
		t.Errorf("expected no remotes after delete, got %v", remotes)
	}
}

func TestRealRepo_PushAndLsRemote(t *testing.T) {
	repo := NewRealRepo()

	dir := setupGitRepo(t)
	bare := setupBareRepo(t)
	commitFile(t, dir, "README.md", "hello\n")
	runGitCmd(t, dir, "remote", "add", "echo-local", bare)

	t.Run("all-refs push replicates branches", func(t *testing.T) {
		if err := repo.Push(dir, "echo-local", PushOptions{AllRefs: true}); err != nil {
			t.Fatalf("Push failed: %v", err)
		}

		branch := runGitCmd(t, dir, "rev-parse", "--abbrev-ref", "HEAD")
		localSHA := runGitCmd(t, dir, "rev-parse", "HEAD")

		sha, err := repo.LsRemoteSHA(dir, "echo-local", "refs/heads/"+branch)
		if err != nil {
			t.Fatalf("LsRemoteSHA failed: %v", err)
		}
		if sha != localSHA {
			t.Errorf("remote tip %s, want %s", sha, localSHA)
		}
	})

	t.Run("refspec push deletes a ref", func(t *testing.T) {
		branch := runGitCmd(t, dir, "rev-parse", "--abbrev-ref", "HEAD")
		runGitCmd(t, dir, "branch", "doomed")
		if err := repo.Push(dir, "echo-local", PushOptions{Refspecs: []string{"refs/heads/doomed:refs/heads/doomed"}}); err != nil {
			t.Fatalf("push of doomed branch failed: %v", err)
		}

		if err := repo.Push(dir, "echo-local", PushOptions{Refspecs: []string{":refs/heads/doomed"}}); err != nil {
			t.Fatalf("deletion push failed: %v", err)
		}

		sha, err := repo.LsRemoteSHA(dir, "echo-local", "refs/heads/doomed")
		if err != nil {
			t.Fatalf("LsRemoteSHA failed: %v", err)
		}
		if sha != "" {
			t.Errorf("expected deleted ref to vanish, got %s", sha)
		}

		// The surviving branch is untouched.
		sha, err = repo.LsRemoteSHA(dir, "echo-local", "refs/heads/"+branch)
		if err != nil {
			t.Fatalf("LsRemoteSHA failed: %v", err)
		}
		if sha == "" {
			t.Error("expected surviving branch to still be advertised")
		}
	})

	t.Run("unknown ref advertises nothing", func(t *testing.T) {
		sha, err := repo.LsRemoteSHA(dir, "echo-local", "refs/heads/never-pushed")
		if err != nil {
			t.Fatalf("LsRemoteSHA failed: %v", err)
		}
		if sha != "" {
			t.Errorf("expected empty SHA, got %s", sha)
		}
	})

	t.Run("push to missing remote fails", func(t *testing.T) {
		err := repo.Push(dir, "echo-nonexistent", PushOptions{AllRefs: true})
		if err == nil {
			t.Error("expected error pushing to missing remote")
		}
	})
}
