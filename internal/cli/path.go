package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Long: `Print the path of settings.json. When output is piped only the bare
path is printed, so it can be used as: $EDITOR "$(cmdtray path)"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Settings"), styleValue.Render(path))
			return nil
		}
		fmt.Fprintln(out, path)
		return nil
	},
}
