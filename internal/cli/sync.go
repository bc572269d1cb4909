package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/gitecho/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push to all linked mirrors",
	Long: `Push to every linked mirror.

In the common case this is done for you: the installed pre-push hook launches
a background sync after each push. Run it manually to catch a mirror up, or
with --all to replicate every branch and tag.

Examples:
  # Replay the default push to all mirrors
  ge sync

  # Replicate all branches and tags
  ge sync --all`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

var (
	syncBackground   bool
	syncAllRefs      bool
	syncRefsFile     string
	syncOriginRemote string
)

func init() {
	syncCmd.Flags().BoolVar(&syncBackground, "bg", false, "Run as a detached background session (log-only output)")
	syncCmd.Flags().BoolVar(&syncAllRefs, "all", false, "Push all branches and tags")
	syncCmd.Flags().StringVar(&syncRefsFile, "refs-file", "", "Ref-update capture file written by the pre-push hook")
	syncCmd.Flags().StringVar(&syncOriginRemote, "origin-remote", "origin", "Remote whose push triggered this session")
	_ = syncCmd.Flags().MarkHidden("refs-file")
	_ = syncCmd.Flags().MarkHidden("origin-remote")
}

// syncMirrorResult is the machine-readable form of one mirror outcome.
type syncMirrorResult struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Synced bool   `json:"synced"`
	Error  string `json:"error,omitempty"`
}

func runSync(cmd *cobra.Command, args []string) error {
	d, err := newDeps()
	if err != nil {
		return err
	}

	root, err := d.repoRoot()
	if err != nil {
		return err
	}

	req := &syncer.Request{
		RepoRoot:     root,
		Background:   syncBackground,
		AllRefs:      syncAllRefs,
		RefsFile:     syncRefsFile,
		OriginRemote: syncOriginRemote,
	}
	if !syncBackground && !jsonOutput {
		req.Progress = func(name string) {
			PrintDim(fmt.Sprintf("Echoing to %s...", name))
		}
	}

	result, err := d.syncer.Run(context.Background(), req)
	if err != nil {
		return err
	}

	if syncBackground {
		// Everything already went to the log sink.
		return nil
	}

	if result.NoMirrors {
		PrintWarning("No mirrors found.")
		return nil
	}

	if jsonOutput {
		out := make([]syncMirrorResult, 0, len(result.Mirrors))
		for _, m := range result.Mirrors {
			r := syncMirrorResult{Name: m.Mirror.Name, URL: m.Mirror.URL, Synced: m.Err == nil}
			if m.Err != nil {
				r.Error = m.Err.Error()
			}
			out = append(out, r)
		}
		return outputJSON(out)
	}

	for _, m := range result.Mirrors {
		if m.Err != nil {
			PrintError(fmt.Sprintf("Failed to sync %s: %v", m.Mirror.Name, m.Err))
			continue
		}
		PrintSuccess(fmt.Sprintf("Synced %s", m.Mirror.Name))
	}
	return nil
}
