package app

import (
	"github.com/blackwell-systems/papershelf/internal/files"
	"github.com/spf13/cobra"
)

func newOpenCmd() *cobra.Command {
	var (
		kindName string
		app      string
	)

	cmd := &cobra.Command{
		Use:   "open <id>",
		Short: "Open an article's PDF or notes with the default application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := files.ParseKind(kindName)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("app") {
				app = cfg.Open.App
			}
			return fileMgr.Open(cmd.Context(), k, args[0], app)
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "pdf", "Document kind: pdf or note")
	cmd.Flags().StringVar(&app, "app", "", "Application to open the file with")
	return cmd
}
