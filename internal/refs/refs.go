// Package refs models the ref updates a pre-push hook reports and the
// refspecs needed to replay them onto a mirror.
//
// The hook writes one line per ref update to a capture file:
//
//	<local_ref> <local_sha> <remote_ref> <remote_sha>
//
// A local SHA of 40 zeros marks a deletion of the remote ref.
package refs

import (
	"strings"

	"github.com/danieljhkim/gitecho/internal/fsops"
)

// ZeroSHA is the all-zero object ID git uses for a deleted ref.
const ZeroSHA = "0000000000000000000000000000000000000000"

// Update is one ref movement reported by the pre-push hook.
// Immutable once captured.
type Update struct {
	LocalRef  string
	LocalSHA  string
	RemoteRef string
	RemoteSHA string
}

// IsDelete reports whether this update deletes RemoteRef on the remote.
func (u Update) IsDelete() bool {
	return u.LocalSHA == ZeroSHA
}

// Parse parses capture text into updates, preserving input order.
// Lines that do not tokenize into exactly four fields are skipped; a partial
// or corrupt capture must never abort the session.
func Parse(raw string) []Update {
	var updates []Update
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 4 {
			continue
		}
		updates = append(updates, Update{
			LocalRef:  fields[0],
			LocalSHA:  fields[1],
			RemoteRef: fields[2],
			RemoteSHA: fields[3],
		})
	}
	return updates
}

// Load reads and parses the capture artifact at path.
//
// Capture files are single-use: the artifact is removed after reading even
// when the read fails, so aborted sessions never leave files behind or replay
// stale captures. An empty path or an unreadable file yields an empty set.
func Load(fs fsops.FS, path string) []Update {
	if path == "" {
		return nil
	}

	data, err := fs.ReadFile(path)
	_ = fs.Remove(path)
	if err != nil {
		return nil
	}

	return Parse(string(data))
}

// BuildRefspecs maps updates to push refspecs, preserving order.
// Deletions become ":<remote_ref>", everything else "<local_ref>:<remote_ref>".
func BuildRefspecs(updates []Update) []string {
	var refspecs []string
	for _, u := range updates {
		if u.IsDelete() {
			refspecs = append(refspecs, ":"+u.RemoteRef)
		} else {
			refspecs = append(refspecs, u.LocalRef+":"+u.RemoteRef)
		}
	}
	return refspecs
}
