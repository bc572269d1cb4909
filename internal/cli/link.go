package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/gitecho/internal/config"
	"github.com/danieljhkim/gitecho/internal/logx"
	"github.com/danieljhkim/gitecho/internal/naming"
)

var linkCmd = &cobra.Command{
	Use:   "link <url>",
	Short: "Link a new mirror URL to this repository",
	Long: `Link a mirror URL to this repository.

A managed remote named after the mirror's host is created and a pre-push hook
is installed, so every future push is echoed to the mirror in the background.

Examples:
  # Link a mirror on another host
  ge link git@backup.example.com:org/repo.git

  # Linking the same URL again is a no-op
  ge link git@backup.example.com:org/repo.git`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

// linkResult is the machine-readable form of a link operation.
type linkResult struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	AlreadyLinked bool   `json:"already_linked"`
}

func runLink(cmd *cobra.Command, args []string) error {
	url := args[0]

	d, err := newDeps()
	if err != nil {
		return err
	}

	root, err := d.repoRoot()
	if err != nil {
		return err
	}

	remotes, err := d.repo.Remotes(root)
	if err != nil {
		return err
	}

	name, alreadyLinked := naming.Resolve(remotes, url)

	if alreadyLinked {
		// Reinstall anyway so a deleted or legacy hook comes back.
		if err := d.hooks.Install(config.HookPath(root), d.logFile); err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(linkResult{Name: name, URL: url, AlreadyLinked: true})
		}
		PrintWarning(fmt.Sprintf("Mirror already linked as %s.", name))
		return nil
	}

	if err := d.repo.CreateRemote(root, name, url); err != nil {
		return fmt.Errorf("failed to link mirror: %w", err)
	}

	if err := d.hooks.Install(config.HookPath(root), d.logFile); err != nil {
		return err
	}

	d.sink.Log(logx.LevelInfo, fmt.Sprintf("Added remote %s for %s", name, root))

	if jsonOutput {
		return outputJSON(linkResult{Name: name, URL: url, AlreadyLinked: false})
	}
	PrintSuccess(fmt.Sprintf("Linked %s", name))
	return nil
}
