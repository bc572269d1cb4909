package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/gitecho/internal/gitx"
	"github.com/danieljhkim/gitecho/internal/naming"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show mirror status",
	Long: `Show the mirrors linked to this repository.

With --short the output is a single ✔ when mirrors exist and nothing
otherwise, suitable for embedding in a shell prompt.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

var statusShort bool

func init() {
	statusCmd.Flags().BoolVar(&statusShort, "short", false, "Minimal output for shell prompts")
}

// statusResult is the machine-readable form of the mirror status.
type statusResult struct {
	Mirrors []statusMirror `json:"mirrors"`
	LogFile string         `json:"log_file"`
}

type statusMirror struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := newDeps()
	if err != nil {
		if statusShort {
			return nil
		}
		return err
	}

	root, err := d.repoRoot()
	if err != nil {
		// Prompts run everywhere; outside a repository stay silent.
		if statusShort {
			return nil
		}
		return err
	}

	remotes, err := d.repo.Remotes(root)
	if err != nil {
		if statusShort {
			fmt.Println("x")
			return nil
		}
		return err
	}

	var mirrors []gitx.Remote
	for _, r := range remotes {
		if naming.IsMirror(r.Name) {
			mirrors = append(mirrors, r)
		}
	}

	if statusShort {
		if len(mirrors) > 0 {
			fmt.Println("✔")
		}
		return nil
	}

	if jsonOutput {
		out := statusResult{Mirrors: []statusMirror{}, LogFile: d.logFile}
		for _, m := range mirrors {
			out.Mirrors = append(out.Mirrors, statusMirror{Name: m.Name, URL: m.URL})
		}
		return outputJSON(out)
	}

	if len(mirrors) == 0 {
		PrintEmptyState("No mirrors active.")
		return nil
	}

	PrintHeader(fmt.Sprintf("Active Mirrors (%d):", len(mirrors)))
	for _, m := range mirrors {
		PrintBullet(m.Name, m.URL)
	}
	fmt.Println()
	PrintDim(fmt.Sprintf("Logs: %s", d.logFile))
	return nil
}
