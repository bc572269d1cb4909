package naming

import (
	"testing"

	"github.com/danieljhkim/gitecho/internal/gitx"
)

func TestIsMirror(t *testing.T) {
	if !IsMirror("echo-github-com") {
		t.Error("expected echo-prefixed name to be a mirror")
	}
	if IsMirror("origin") {
		t.Error("expected origin to not be a mirror")
	}
	if IsMirror("upstream-echo-") {
		t.Error("prefix must be at the start of the name")
	}
}

func TestResolve(t *testing.T) {
	t.Run("derives name from scp-like url on empty repo", func(t *testing.T) {
		name, linked := Resolve(nil, "git@host.example:org/repo.git")
		if name != "echo-host-example" {
			t.Errorf("got name %q, want echo-host-example", name)
		}
		if linked {
			t.Error("expected alreadyLinked=false")
		}
	})

	t.Run("same url twice is idempotent", func(t *testing.T) {
		name, linked := Resolve(nil, "git@host.example:org/repo.git")
		if linked {
			t.Fatal("first resolve should not be linked")
		}

		existing := []gitx.Remote{{Name: name, URL: "git@host.example:org/repo.git"}}
		name2, linked2 := Resolve(existing, "git@host.example:org/repo.git")
		if name2 != name {
			t.Errorf("second resolve returned %q, want %q", name2, name)
		}
		if !linked2 {
			t.Error("expected alreadyLinked=true on second resolve")
		}
	})

	t.Run("second url on same host disambiguates by repo slug", func(t *testing.T) {
		existing := []gitx.Remote{
			{Name: "echo-host-example", URL: "git@host.example:org/repo.git"},
		}

		name, linked := Resolve(existing, "git@host.example:org/other.git")
		if name != "echo-host-example-other" {
			t.Errorf("got name %q, want echo-host-example-other", name)
		}
		if linked {
			t.Error("expected alreadyLinked=false")
		}
	})

	t.Run("numeric suffix when host and repo names are taken", func(t *testing.T) {
		existing := []gitx.Remote{
			{Name: "echo-host-example", URL: "git@host.example:a/repo.git"},
			{Name: "echo-host-example-repo", URL: "git@host.example:b/repo.git"},
			{Name: "echo-host-example-repo-2", URL: "git@host.example:c/repo.git"},
		}

		name, _ := Resolve(existing, "git@host.example:d/repo.git")
		if name != "echo-host-example-repo-3" {
			t.Errorf("got name %q, want echo-host-example-repo-3", name)
		}
	})

	t.Run("https url uses hostname", func(t *testing.T) {
		name, _ := Resolve(nil, "https://gitlab.com/group/project.git")
		if name != "echo-gitlab-com" {
			t.Errorf("got name %q, want echo-gitlab-com", name)
		}
	})

	t.Run("bare path falls back to default host token", func(t *testing.T) {
		name, _ := Resolve(nil, "/srv/mirrors/project.git")
		if name != "echo-remote" {
			t.Errorf("got name %q, want echo-remote", name)
		}

		existing := []gitx.Remote{{Name: "echo-remote", URL: "/other"}}
		name, _ = Resolve(existing, "/srv/mirrors/project.git")
		if name != "echo-remote-project" {
			t.Errorf("got name %q, want echo-remote-project", name)
		}
	})

	t.Run("unrelated remotes do not trigger already-linked", func(t *testing.T) {
		existing := []gitx.Remote{
			{Name: "origin", URL: "git@github.com:org/app.git"},
		}

		name, linked := Resolve(existing, "git@backup.example:org/app.git")
		if linked {
			t.Error("expected alreadyLinked=false")
		}
		if name != "echo-backup-example" {
			t.Errorf("got name %q, want echo-backup-example", name)
		}
	})
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in       string
		fallback string
		want     string
	}{
		{"Host.Example", "remote", "host-example"},
		{"my__repo..name", "repo", "my-repo-name"},
		{"---", "repo", "repo"},
		{"", "remote", "remote"},
		{"v2.stable", "repo", "v2-stable"},
	}

	for _, tt := range tests {
		if got := slug(tt.in, tt.fallback); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
