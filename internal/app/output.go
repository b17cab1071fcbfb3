package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blackwell-systems/papershelf/internal/files"
	"github.com/blackwell-systems/papershelf/internal/tui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func printField(label, value string) {
	fmt.Printf("  %-18s %s\n", color.CyanString(label+":"), value)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printYAML(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for n := n / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// prompt prints question and returns the trimmed answer line.
func prompt(question string) (string, error) {
	fmt.Print(question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func confirm(question string) bool {
	answer, err := prompt(question + " (y/N): ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// runBulk runs op against the file manager, drawing a progress bar when
// attached to a terminal. Closing the bar with Ctrl+C only hides it; the
// operation runs to completion either way.
func runBulk(cmd *cobra.Command, label string, op func(m *files.Manager) error) error {
	if !tui.ShouldUseTUI(cmd) {
		return op(fileMgr)
	}

	progressCh := make(chan tui.Progress, 50)
	errCh := make(chan error, 1)
	go func() {
		err := op(fileMgr.WithProgress(tui.Reporter(progressCh)))
		close(progressCh)
		errCh <- err
	}()

	if err := tui.ShowProgress(label, progressCh); err != nil {
		if !errors.Is(err, tui.ErrDetached) {
			warn("progress display failed: %v", err)
		}
		fmt.Println("Waiting for the operation to finish…")
	}
	return <-errCh
}
