package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"fmpd/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFile    string
	noColor    bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands.
// Run without a subcommand it behaves like "fmpd download".
var rootCmd = &cobra.Command{
	Use:   "fmpd [fbid...] [-]",
	Short: "Facebook massive picture downloader",
	Long: `fmpd downloads full-size Facebook photos by FBID.

Each identifier is resolved through the photo's full-size view page using the
cookies of a logged-in browser session, then the photo is saved in a fresh
output directory as YYYYMMDD.jpg, named after its upload date. Photos from the
same day become "YYYYMMDD 1.jpg", "YYYYMMDD 2.jpg" and so on.

Identifiers are read from list.txt by default, one per line. They can also be
given as arguments; "-" reads them from stdin.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetQuietMode(quiet)
		if noColor {
			ui.SetColor(false)
		}
	},
	RunE: runDownload,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			ui.PrintError("Interrupted", err)
		} else {
			ui.PrintError("Error", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .fmpd.yaml or $HOME/.config/fmpd/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "do not print the names of written files")

	addDownloadFlags(rootCmd)

	rootCmd.SetVersionTemplate(`fmpd {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
