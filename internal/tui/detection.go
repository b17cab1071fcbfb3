package tui

import (
	"github.com/blackwell-systems/papershelf/internal/util"
	"github.com/spf13/cobra"
)

// ShouldUseTUI returns true if the command should draw interactive
// progress. It is enabled when:
// - stdout is a TTY (not piped or redirected)
// - --no-interactive flag is not set
// - --json is not set (indicates scripting intent)
func ShouldUseTUI(cmd *cobra.Command) bool {
	if !util.IsTTY() {
		return false
	}

	noInteractive, _ := cmd.Flags().GetBool("no-interactive")
	if noInteractive {
		return false
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return false
	}

	return true
}
