package app

import (
	"fmt"

	"github.com/blackwell-systems/papershelf/internal/files"
	"github.com/spf13/cobra"
)

func newLocateCmd() *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "locate <id>",
		Short: "Print the path of an article's document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := files.ParseKind(kindName)
			if err != nil {
				return err
			}
			p, err := fileMgr.Locate(cmd.Context(), k, args[0])
			if err != nil {
				return err
			}
			fmt.Println(p)
			return nil
		},
	}

	cmd.Flags().StringVar(&kindName, "kind", "pdf", "Document kind: pdf or note")
	return cmd
}
