package refs

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danieljhkim/gitecho/internal/fsops"
)

const testSHA = "ab12cd34ab12cd34ab12cd34ab12cd34ab12cd34"

func TestParse(t *testing.T) {
	t.Run("parses well-formed lines in order", func(t *testing.T) {
		raw := "refs/heads/main " + testSHA + " refs/heads/main " + ZeroSHA + "\n" +
			"refs/tags/v1 " + testSHA + " refs/tags/v1 " + ZeroSHA + "\n"

		got := Parse(raw)
		want := []Update{
			{LocalRef: "refs/heads/main", LocalSHA: testSHA, RemoteRef: "refs/heads/main", RemoteSHA: ZeroSHA},
			{LocalRef: "refs/tags/v1", LocalSHA: testSHA, RemoteRef: "refs/tags/v1", RemoteSHA: ZeroSHA},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Parse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("skips malformed lines", func(t *testing.T) {
		raw := "refs/heads/main " + testSHA + " refs/heads/main " + ZeroSHA + "\n" +
			"only three fields\n" +
			"a line of five fields\n" +
			"\n" +
			"   \n"

		got := Parse(raw)
		if len(got) != 1 {
			t.Fatalf("expected 1 update, got %d", len(got))
		}
		if got[0].LocalRef != "refs/heads/main" {
			t.Errorf("unexpected update: %+v", got[0])
		}
	})

	t.Run("empty input yields empty set", func(t *testing.T) {
		if got := Parse(""); len(got) != 0 {
			t.Errorf("expected empty set, got %v", got)
		}
	})
}

func TestUpdate_IsDelete(t *testing.T) {
	del := Update{LocalSHA: ZeroSHA}
	if !del.IsDelete() {
		t.Error("expected zero-SHA update to be a deletion")
	}

	upd := Update{LocalSHA: testSHA}
	if upd.IsDelete() {
		t.Error("expected non-zero-SHA update to not be a deletion")
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path yields empty set", func(t *testing.T) {
		fs := fsops.NewFakeFS()
		if got := Load(fs, ""); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
		if len(fs.Removed) != 0 {
			t.Errorf("expected no removes, got %v", fs.Removed)
		}
	})

	t.Run("reads, parses and deletes the artifact", func(t *testing.T) {
		fs := fsops.NewFakeFS()
		fs.Files["/tmp/refs"] = []byte("refs/heads/main " + testSHA + " refs/heads/main " + ZeroSHA + "\n")

		got := Load(fs, "/tmp/refs")
		if len(got) != 1 {
			t.Fatalf("expected 1 update, got %d", len(got))
		}
		if _, ok := fs.Files["/tmp/refs"]; ok {
			t.Error("expected artifact to be deleted after load")
		}
	})

	t.Run("deletes the artifact even when reading fails", func(t *testing.T) {
		fs := fsops.NewFakeFS()
		fs.Files["/tmp/refs"] = []byte("irrelevant")
		fs.ReadErr = errors.New("permission denied")

		got := Load(fs, "/tmp/refs")
		if len(got) != 0 {
			t.Errorf("expected empty set, got %v", got)
		}
		if len(fs.Removed) != 1 || fs.Removed[0] != "/tmp/refs" {
			t.Errorf("expected artifact removal to be attempted, got %v", fs.Removed)
		}
	})

	t.Run("unparsable content still deletes the artifact", func(t *testing.T) {
		fs := fsops.NewFakeFS()
		fs.Files["/tmp/refs"] = []byte("garbage with five whole fields\n")

		got := Load(fs, "/tmp/refs")
		if len(got) != 0 {
			t.Errorf("expected empty set, got %v", got)
		}
		if _, ok := fs.Files["/tmp/refs"]; ok {
			t.Error("expected artifact to be deleted")
		}
	})
}

func TestBuildRefspecs(t *testing.T) {
	t.Run("maps deletions and updates preserving order", func(t *testing.T) {
		updates := []Update{
			{LocalRef: "refs/heads/main", LocalSHA: testSHA, RemoteRef: "refs/heads/main"},
			{LocalRef: "refs/heads/gone", LocalSHA: ZeroSHA, RemoteRef: "refs/heads/gone"},
			{LocalRef: "refs/tags/v1", LocalSHA: testSHA, RemoteRef: "refs/tags/v1"},
		}

		got := BuildRefspecs(updates)
		want := []string{
			"refs/heads/main:refs/heads/main",
			":refs/heads/gone",
			"refs/tags/v1:refs/tags/v1",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("BuildRefspecs mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("parse then build yields deletion refspec for zero sha", func(t *testing.T) {
		raw := "refs/heads/main " + ZeroSHA + " refs/heads/main abc123\n"
		got := BuildRefspecs(Parse(raw))
		want := []string{":refs/heads/main"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("refspec mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty set yields no refspecs", func(t *testing.T) {
		if got := BuildRefspecs(nil); len(got) != 0 {
			t.Errorf("expected no refspecs, got %v", got)
		}
	})
}
