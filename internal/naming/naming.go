// Package naming derives deterministic, collision-free local names for
// mirror remotes from their URLs.
//
// Every managed mirror remote carries the "echo-" prefix, which is how the
// rest of the tool (and the installed pre-push hook) tells mirrors apart from
// the primary remote and from unrelated remotes the user configured.
package naming

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/danieljhkim/gitecho/internal/gitx"
)

// Prefix marks a remote as a gitecho-managed mirror.
const Prefix = "echo-"

var (
	nonAlphaNumRgx = regexp.MustCompile(`[^a-z0-9]+`)

	// [user@]host:path, the scp-like form git accepts without a scheme.
	scpLikeRgx = regexp.MustCompile(`^(?:.+@)?([^:/]+):(.+)$`)
)

// IsMirror reports whether a remote name belongs to a managed mirror.
func IsMirror(name string) bool {
	return strings.HasPrefix(name, Prefix)
}

// Resolve returns the local remote name for url.
//
// When an existing remote already points at exactly url, its name is returned
// with alreadyLinked = true, making linking idempotent. Otherwise a fresh
// name is derived: Prefix+hostSlug, then Prefix+hostSlug-repoSlug, then
// numbered variants, taking the first not already in use.
func Resolve(existing []gitx.Remote, rawURL string) (name string, alreadyLinked bool) {
	for _, r := range existing {
		if r.URL == rawURL {
			return r.Name, true
		}
	}

	taken := make(map[string]bool, len(existing))
	for _, r := range existing {
		taken[r.Name] = true
	}

	hostSlug, repoSlug := remoteParts(rawURL)

	hostName := Prefix + hostSlug
	if !taken[hostName] {
		return hostName, false
	}

	repoName := hostName + "-" + repoSlug
	if !taken[repoName] {
		return repoName, false
	}

	for counter := 2; ; counter++ {
		candidate := fmt.Sprintf("%s-%d", repoName, counter)
		if !taken[candidate] {
			return candidate, false
		}
	}
}

// remoteParts extracts slugged host and repository tokens from a raw URL.
// Accepts scheme URLs, scp-like [user@]host:path forms, and bare paths.
func remoteParts(rawURL string) (hostSlug, repoSlug string) {
	host := "remote"
	path := ""

	if u, err := url.Parse(rawURL); err == nil && u.Scheme != "" && u.Hostname() != "" {
		host = u.Hostname()
		path = u.Path
	} else if m := scpLikeRgx.FindStringSubmatch(rawURL); m != nil {
		host, path = m[1], m[2]
	} else {
		path = rawURL
	}

	repoName := "repo"
	if path != "" {
		segments := strings.Split(strings.TrimRight(path, "/"), "/")
		repoName = segments[len(segments)-1]
	}
	repoName = strings.TrimSuffix(repoName, ".git")

	return slug(host, "remote"), slug(repoName, "repo")
}

// slug lowercases value and collapses every run of non-alphanumeric
// characters to a single dash, falling back when nothing survives.
func slug(value, fallback string) string {
	s := nonAlphaNumRgx.ReplaceAllString(strings.ToLower(value), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return fallback
	}
	return s
}
