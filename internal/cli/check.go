package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cmdtray/cmdtray/internal/config"
	"github.com/cmdtray/cmdtray/internal/daemon/menu"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the settings file and print the menu",
	Long: `Load settings.json the same way the tray does and print the menu it
would show. Exits non-zero if the file cannot be parsed or has no commands
array.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s %s\n\n", styleLabel.Render("Settings"), styleValue.Render(path))

	settings, warnings, err := config.NewSettingsStore(path).Reload()
	var validationErr *config.ValidationError
	if err != nil && !errors.As(err, &validationErr) {
		fmt.Fprintf(out, "%s %v\n", styleError.Render("✗"), err)
		return fmt.Errorf("settings check failed")
	}

	theme := "light"
	if settings.General.DarkTheme {
		theme = "dark"
	}
	fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Theme"), styleValue.Render(theme))

	tree := menu.Build(settings)
	fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Menu"), styleHint.Render(fmt.Sprintf("(%d commands)", tree.Leaves())))
	printTree(out, tree, 1)
	for _, label := range []string{"Settings", "About", "Quit"} {
		fmt.Fprintf(out, "  %s\n", styleHint.Render(label))
	}

	if len(warnings) > 0 {
		fmt.Fprintln(out)
		for _, w := range warnings {
			fmt.Fprintf(out, "%s %s\n", styleWarning.Render("!"), w)
		}
	}

	if validationErr != nil {
		fmt.Fprintln(out)
		for _, p := range validationErr.Problems {
			fmt.Fprintf(out, "%s %s\n", styleError.Render("✗"), p)
		}
		return fmt.Errorf("settings check failed")
	}

	fmt.Fprintf(out, "\n%s\n", styleSuccess.Render("✓ Settings OK"))
	return nil
}

func printTree(out io.Writer, nodes []menu.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, node := range nodes {
		if node.IsSubmenu() {
			fmt.Fprintf(out, "%s%s\n", indent, styleGroup.Render(node.Label+" ▸"))
			printTree(out, node.Children, depth+1)
			continue
		}
		fmt.Fprintf(out, "%s%s  %s\n", indent, styleValue.Render(node.Label), styleHint.Render(node.Command))
	}
}
