// Package hook installs and removes the gitecho block in a repository's
// pre-push hook.
//
// The block is delimited by fixed marker lines so it can be stripped and
// re-appended without disturbing whatever else the user keeps in the hook.
// Earlier releases wrote an unmarked block; that form is still recognized
// and removed by structural pattern.
package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/danieljhkim/gitecho/internal/fsops"
	"github.com/danieljhkim/gitecho/internal/gitx"
	"github.com/danieljhkim/gitecho/internal/naming"
)

const (
	// MarkerStart and MarkerEnd delimit the managed block.
	MarkerStart = "# >>> gitecho hook start >>>"
	MarkerEnd   = "# <<< gitecho hook end <<<"

	shebang = "#!/bin/sh"
)

// legacyBlockRgx matches the unmarked block written by earlier releases.
var legacyBlockRgx = regexp.MustCompile(
	`# GitEcho hook\n` +
		`if command -v ge >/dev/null 2>&1; then\n` +
		`\s*ge sync --bg >> ~/\.gitecho\.log 2>&1 &\n` +
		`fi\n` +
		`(?:exit 0\n)?`,
)

// RemoveManagedBlock strips the gitecho block from hook text. Idempotent:
// applying it twice yields the same result as once. The marker-delimited rule
// and the legacy structural rule are applied independently; non-empty output
// always ends with exactly one trailing newline.
func RemoveManagedBlock(text string) string {
	updated := stripMarkedBlock(text)
	updated = stripLegacyBlock(updated)

	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	return updated
}

// stripMarkedBlock removes the marker-delimited block along with any blank
// lines immediately after the end marker.
func stripMarkedBlock(text string) string {
	start := strings.Index(text, MarkerStart)
	endMarker := strings.Index(text, MarkerEnd)
	if start < 0 || endMarker < 0 {
		return text
	}

	end := endMarker + len(MarkerEnd)
	for end < len(text) && text[end] == '\n' {
		end++
	}
	return text[:start] + text[end:]
}

// stripLegacyBlock removes the unmarked block format by structural pattern.
func stripLegacyBlock(text string) string {
	return legacyBlockRgx.ReplaceAllString(text, "")
}

// block renders the managed hook fragment.
//
// The fragment no-ops when the recursion guard variable is set, ignores
// pushes whose destination is itself a mirror remote, and otherwise captures
// the ref-update lines from stdin to a unique temp file before launching a
// detached background session with its output appended to the log file.
func block(logFile string) string {
	syncCmd := `ge sync --bg --origin-remote "$1" --refs-file "$_ge_refs"`

	return MarkerStart + "\n" +
		fmt.Sprintf(`if [ "${%s:-0}" = "1" ]; then`, gitx.SkipHookEnv) + "\n" +
		"    :\n" +
		"elif command -v ge >/dev/null 2>&1; then\n" +
		`    case "$1" in` + "\n" +
		fmt.Sprintf(`        "%s"*) ;;`, naming.Prefix) + "\n" +
		"        *)\n" +
		`            _ge_refs="$(mktemp "${TMPDIR:-/tmp}/gitecho-refs.XXXXXX")"` + "\n" +
		`            cat > "$_ge_refs"` + "\n" +
		fmt.Sprintf(`            %s >> "%s" 2>&1 &`, syncCmd, logFile) + "\n" +
		"            ;;\n" +
		"    esac\n" +
		"fi\n" +
		MarkerEnd + "\n"
}

// Manager mutates the pre-push hook file.
type Manager struct {
	fs fsops.FS
}

// NewManager creates a Manager writing through fs.
func NewManager(fs fsops.FS) *Manager {
	return &Manager{fs: fs}
}

// Install writes the managed block into the hook at hookPath, creating the
// hooks directory and the file with a bare shebang when absent. Any previous
// managed block (marked or legacy) is stripped first, so installing is
// idempotent. Content outside the block is preserved byte for byte. The hook
// is made executable.
func (m *Manager) Install(hookPath, logFile string) error {
	if err := m.fs.MkdirAll(filepath.Dir(hookPath), 0755); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	existing := shebang + "\n"
	if data, err := m.fs.ReadFile(hookPath); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read hook file: %w", err)
	}

	cleaned := strings.TrimRight(RemoveManagedBlock(existing), "\n")

	var b strings.Builder
	if cleaned != "" {
		b.WriteString(cleaned)
		b.WriteString("\n")
	}
	b.WriteString(block(logFile))

	if err := m.fs.AtomicWrite(hookPath, []byte(b.String()), 0755); err != nil {
		return fmt.Errorf("failed to write hook file: %w", err)
	}
	return nil
}

// Uninstall strips the managed block from the hook at hookPath. When nothing
// but an empty shebang remains, the file is deleted rather than left as a
// vestigial hook. Returns whether the hook was changed.
func (m *Manager) Uninstall(hookPath string) (bool, error) {
	data, err := m.fs.ReadFile(hookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read hook file: %w", err)
	}

	content := string(data)
	cleaned := RemoveManagedBlock(content)
	if cleaned == content {
		return false, nil
	}

	stripped := strings.TrimSpace(cleaned)
	if stripped == "" || stripped == shebang {
		if err := m.fs.Remove(hookPath); err != nil {
			return false, fmt.Errorf("failed to remove hook file: %w", err)
		}
		return true, nil
	}

	if err := m.fs.AtomicWrite(hookPath, []byte(cleaned), 0755); err != nil {
		return false, fmt.Errorf("failed to write hook file: %w", err)
	}
	return true, nil
}
