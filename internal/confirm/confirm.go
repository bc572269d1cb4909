// Package confirm decides whether the primary remote accepted a push before
// any mirror is touched.
//
// The pre-push hook fires client-side, before the outcome of the primary push
// is known. The poller watches the primary remote's advertised tips until
// every captured ref update is reflected there, or a hard deadline passes.
// This is a best-effort convergence check: the primary could in principle
// move again between confirmation and the mirror pushes, which is an accepted
// trade-off, not a bug.
package confirm

import (
	"time"

	"github.com/danieljhkim/gitecho/internal/clock"
	"github.com/danieljhkim/gitecho/internal/gitx"
	"github.com/danieljhkim/gitecho/internal/refs"
)

// Poller polls the primary remote until captured ref updates are confirmed.
type Poller struct {
	repo     gitx.Repo
	clock    clock.Clock
	interval time.Duration
	timeout  time.Duration
}

// New creates a Poller probing every interval until timeout.
func New(repo gitx.Repo, clk clock.Clock, interval, timeout time.Duration) *Poller {
	return &Poller{repo: repo, clock: clk, interval: interval, timeout: timeout}
}

// Confirmed reports whether the origin remote reflects every update.
//
// An empty update set is confirmed immediately. Otherwise each pending update
// is probed per iteration: a deletion resolves once the remote no longer
// advertises the ref, anything else once the advertised tip equals the
// update's local SHA. A failed lookup leaves the update pending. Returns
// early as soon as nothing is pending; returns false once the deadline
// passes with updates still unresolved.
func (p *Poller) Confirmed(root, origin string, updates []refs.Update) bool {
	if len(updates) == 0 {
		return true
	}

	deadline := p.clock.Now().Add(p.timeout)
	pending := updates

	for p.clock.Now().Before(deadline) {
		var unresolved []refs.Update
		for _, u := range pending {
			if !p.resolved(root, origin, u) {
				unresolved = append(unresolved, u)
			}
		}

		if len(unresolved) == 0 {
			return true
		}

		pending = unresolved
		p.clock.Sleep(p.interval)
	}

	return false
}

func (p *Poller) resolved(root, origin string, u refs.Update) bool {
	tip, err := p.repo.LsRemoteSHA(root, origin, u.RemoteRef)
	if err != nil {
		// Unknown tip counts as not yet confirmed, never as an error.
		return false
	}

	if u.IsDelete() {
		return tip == ""
	}
	return tip == u.LocalSHA
}
