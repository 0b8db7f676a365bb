// Package cli implements the cmdtray command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/cmdtray/cmdtray/internal/config"
	"github.com/cmdtray/cmdtray/internal/daemon/app"
	"github.com/cmdtray/cmdtray/internal/logging"
)

var (
	flagSettings string
	flagDebug    bool
	flagLogFile  string
)

var rootCmd = &cobra.Command{
	Use:   "cmdtray",
	Short: "Launch shell commands from a tray menu",
	Long: `cmdtray shows a tray menu built from settings.json and runs the
selected shell command in the background. The menu reloads whenever the
settings file is saved.

Run without a subcommand to start the tray.`,
	SilenceUsage: true,
	RunE:         runTray,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", "", "Path to settings.json (default: per-user config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Log file (default: <config dir>/cmdtray/logs/cmdtray.log)")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(versionCmd)
}

func runTray(cmd *cobra.Command, args []string) error {
	opts, err := app.DefaultOptions()
	if err != nil {
		return err
	}
	if flagSettings != "" {
		opts.SettingsPath = flagSettings
	}

	logFile := flagLogFile
	if logFile == "" {
		if logFile, err = config.LogFile(); err != nil {
			return err
		}
	}
	// stderr only until the instance lock is held
	logging.Setup(logging.Options{Debug: flagDebug})
	opts.Log = logging.Options{File: logFile, Debug: flagDebug}

	return app.Run(opts)
}

// settingsPath returns the --settings value or the default location.
func settingsPath() (string, error) {
	if flagSettings != "" {
		return flagSettings, nil
	}
	return config.SettingsFile()
}
