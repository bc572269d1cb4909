package syncer

import "github.com/danieljhkim/gitecho/internal/gitx"

// Request contains parameters for one synchronization session.
type Request struct {
	// RepoRoot is the root directory of the repository.
	RepoRoot string

	// Background marks a detached session launched by the pre-push hook.
	// Background sessions report only to the log sink.
	Background bool

	// AllRefs pushes every branch and every tag instead of replaying
	// captured ref updates.
	AllRefs bool

	// RefsFile is the capture artifact written by the hook. Empty when the
	// session was started manually.
	RefsFile string

	// OriginRemote is the destination of the push that triggered the hook.
	OriginRemote string

	// Progress, when set, is called with each mirror name before its push.
	Progress func(name string)
}

// MirrorResult is the outcome of one mirror push.
type MirrorResult struct {
	Mirror gitx.Remote

	// Err is nil on success. One mirror's failure never aborts the others.
	Err error
}

// Result is the outcome of a synchronization session.
type Result struct {
	// Mirrors holds one entry per attempted mirror push, in order.
	Mirrors []MirrorResult

	// NoMirrors is true when the repository has no managed mirrors.
	NoMirrors bool

	// SkippedMirrorTriggered is true when the session was triggered by a
	// push to a mirror remote and did nothing.
	SkippedMirrorTriggered bool

	// ConfirmationTimedOut is true when origin confirmation did not resolve
	// before the deadline. Unless overridden, no mirrors were pushed.
	ConfirmationTimedOut bool

	// RefspecCount is how many captured ref updates were replayed.
	RefspecCount int
}

// Failed returns the results of mirrors whose push failed.
func (r *Result) Failed() []MirrorResult {
	var failed []MirrorResult
	for _, m := range r.Mirrors {
		if m.Err != nil {
			failed = append(failed, m)
		}
	}
	return failed
}
