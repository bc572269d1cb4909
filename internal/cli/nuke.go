package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/gitecho/internal/config"
	"github.com/danieljhkim/gitecho/internal/naming"
)

var nukeCmd = &cobra.Command{
	Use:   "nuke",
	Short: "Remove all mirrors and hooks from this repository",
	Long: `Remove every linked mirror and uninstall the pre-push hook.

Hook content that gitecho did not write is left untouched; the hook file is
deleted only when nothing but the managed block was in it.

Examples:
  # Interactive removal
  ge nuke

  # Skip the confirmation prompt
  ge nuke --yes`,
	Args: cobra.NoArgs,
	RunE: runNuke,
}

var nukeYes bool

func init() {
	nukeCmd.Flags().BoolVarP(&nukeYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runNuke(cmd *cobra.Command, args []string) error {
	d, err := newDeps()
	if err != nil {
		return err
	}

	root, err := d.repoRoot()
	if err != nil {
		return err
	}

	if !nukeYes {
		fmt.Printf("Remove gitecho hooks from %s? [y/N]: ", root)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			PrintInfo("Aborted.")
			return nil
		}
	}

	changed, err := d.hooks.Uninstall(config.HookPath(root))
	if err != nil {
		return err
	}
	if changed {
		PrintSuccess("Hook updated: pre-push")
	}

	remotes, err := d.repo.Remotes(root)
	if err != nil {
		return err
	}

	for _, r := range remotes {
		if !naming.IsMirror(r.Name) {
			continue
		}
		if err := d.repo.DeleteRemote(root, r.Name); err != nil {
			PrintError(fmt.Sprintf("Failed to remove remote %s: %v", r.Name, err))
			continue
		}
		PrintSuccess(fmt.Sprintf("Removed remote %s", r.Name))
	}
	return nil
}
