package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"fmpd/pkg/config"
	"fmpd/pkg/ui"
)

const defaultConfigPath = ".fmpd.yaml"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage fmpd configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (FMPD_*, also read from .env)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.fmpd.yaml'
unless a different path is specified with the --config flag.`,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging all sources:
  - Environment variables
  - Configuration file
  - Default values`,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Required fields and value ranges
  - That the cookie jar and list file can be read`,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# fmpd configuration file
#
# Every option can also be set with an environment variable prefixed with
# FMPD_, for example FMPD_COOKIES_FILE or FMPD_OUTPUT_DIR.

facebook:
  # The FBID is appended to this URL
  prefix: "https://m.facebook.com/photo/view_full_size/?fbid="

  # User agent sent with every request
  user_agent: "Mozilla/5.0 (Windows NT 6.1; Win64; x64; rv:47.0) Gecko/20100101 Firefox/47.0"

  # Netscape cookie-jar file exported from a logged-in browser
  cookies_file: "cookies.txt"

  # Name of a cookie jar stored with 'fmpd cookies import'.
  # When set, cookies_file is ignored.
  account: ""

input:
  # One FBID per line; blank lines and lines starting with # are skipped
  list_file: "list.txt"

output:
  # Created by each run; the run fails if it already exists
  directory: "output"
  extension: ".jpg"

  # File name template, the extension is appended. yyyy MM dd HH mm ss are
  # date parts, f is the FBID, i...i / I...I the zero padded collision index
  # (i is empty for the first file, I starts at 1), 'text' is literal,
  # [...] is dropped when its index is empty and / creates folders.
  name: "yyyyMMdd[ i]"

  # Do not print the names of written files
  quiet: false

  # Send a desktop notification when a run ends
  notify: false

  # Show the interactive run view (needs a terminal)
  tui: false

download:
  # Timeout for each HTTP request, e.g. 30s. 0 means no timeout.
  timeout: 0s

logging:
  # debug, info, warn, error or disabled
  level: "info"

  # Also write logs to this file
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file %s already exists, remove it first to overwrite", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	source := configFile
	if source == "" {
		source = config.FindConfigFile()
	}
	if source == "" {
		source = "(defaults)"
	}
	ui.PrintInfo("Configuration file", source)

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		return fmt.Errorf("no configuration file found, specify one with --config")
	}

	ui.PrintInfo("Validating configuration", path)

	cfg, err := config.Load(path, nil)
	if err != nil {
		return err
	}

	var warnings []string
	if cfg.Facebook.Account == "" {
		if _, err := os.Stat(cfg.Facebook.CookiesFile); err != nil {
			warnings = append(warnings, fmt.Sprintf("cookie jar %s is not readable", cfg.Facebook.CookiesFile))
		}
	}
	if _, err := os.Stat(cfg.Input.ListFile); err != nil {
		warnings = append(warnings, fmt.Sprintf("list file %s is not readable", cfg.Input.ListFile))
	}
	if _, err := os.Stat(cfg.Output.Directory); err == nil {
		warnings = append(warnings, fmt.Sprintf("output directory %s already exists, a run would fail", cfg.Output.Directory))
	}

	for _, w := range warnings {
		ui.PrintWarning("Warning", w)
	}

	ui.PrintSuccess("Configuration is valid")
	return nil
}
