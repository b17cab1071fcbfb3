package app

import (
	"fmt"
	"sort"

	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	var asJSON bool

	show := func(cmd *cobra.Command, args []string) error {
		s, err := settings.Get(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(s)
		}
		printSettings(s)
		return nil
	}

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change user settings",
		Args:  cobra.NoArgs,
		RunE:  show,
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Output as JSON")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show user settings",
			Args:  cobra.NoArgs,
			RunE:  show,
		},
		newSettingsSetCmd(),
	)
	return cmd
}

func newSettingsSetCmd() *cobra.Command {
	var (
		theme      string
		language   string
		dateFormat string
		prefs      map[string]string
		unset      []string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change user settings",
		Long: `Change user settings. Only the flags you pass are applied.

Examples:
  papershelf settings set --theme dark
  papershelf settings set --pref sort=year --pref density=compact
  papershelf settings set --unset-pref density`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var u library.SettingsUpdate
			if cmd.Flags().Changed("theme") {
				u.Theme = library.Some(theme)
			}
			if cmd.Flags().Changed("language") {
				u.Language = library.Some(language)
			}
			if cmd.Flags().Changed("date-format") {
				u.DateFormat = library.Some(dateFormat)
			}
			if len(prefs) > 0 || len(unset) > 0 {
				current, err := settings.Get(ctx)
				if err != nil {
					return err
				}
				merged := current.Preferences
				for k, v := range prefs {
					merged[k] = v
				}
				for _, k := range unset {
					delete(merged, k)
				}
				u.Preferences = library.Some(merged)
			}

			s, err := settings.Update(ctx, u)
			if err != nil {
				return err
			}
			ok("Settings saved")
			printSettings(s)
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "Color theme (light or dark)")
	cmd.Flags().StringVar(&language, "language", "", "Interface language code")
	cmd.Flags().StringVar(&dateFormat, "date-format", "", "Date display format, e.g. YYYY-MM-DD")
	cmd.Flags().StringToStringVar(&prefs, "pref", nil, "Set a preference key=value (repeatable)")
	cmd.Flags().StringSliceVar(&unset, "unset-pref", nil, "Remove a preference key (repeatable)")
	return cmd
}

func printSettings(s library.UserSettings) {
	header("Settings")
	printField("theme", s.Theme)
	printField("language", s.Language)
	printField("date format", s.DateFormat)
	printField("mirror", mirrorState(s))
	if s.CustomStoragePath != "" {
		printField("relocated to", s.CustomStoragePath)
	}
	if len(s.Preferences) == 0 {
		return
	}
	keys := make([]string, 0, len(s.Preferences))
	for k := range s.Preferences {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printField("pref "+k, fmt.Sprint(s.Preferences[k]))
	}
}

func mirrorState(s library.UserSettings) string {
	switch {
	case s.ExternalSyncEnabled:
		return "on  " + s.ExternalSyncPath
	case s.ExternalSyncPath != "":
		return "off (" + s.ExternalSyncPath + ")"
	}
	return "off"
}
