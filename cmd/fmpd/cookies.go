package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"fmpd/pkg/cookies"
	"fmpd/pkg/ui"
)

// cookiesCmd represents the cookies command
var cookiesCmd = &cobra.Command{
	Use:   "cookies",
	Short: "Manage stored cookie jars",
	Long: `Store browser session cookies under a name instead of keeping a plain
cookies.txt file, then select them with 'fmpd download --account NAME'.

Cookies are stored using:
  - System keychain (macOS Keychain, Windows Credential Manager,
    Secret Service on Linux) when available
  - Encrypted file in ~/.config/fmpd otherwise (passphrase from
    FMPD_PASSPHRASE or a generated key file)

Cookie values grant access to your account. Never share them!`,
}

var cookiesImportCmd = &cobra.Command{
	Use:   "import NAME FILE",
	Short: "Store a Netscape cookie-jar file under NAME",
	Example: `  # Store cookies exported from the browser
  fmpd cookies import me ~/Downloads/cookies.txt

  # Read the jar from stdin
  fmpd cookies import me - < cookies.txt`,
	Args: cobra.ExactArgs(2),
	RunE: runCookiesImport,
}

var cookiesShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "List the cookies stored under NAME with masked values",
	Args:  cobra.ExactArgs(1),
	RunE:  runCookiesShow,
}

var cookiesDeleteCmd = &cobra.Command{
	Use:     "delete NAME",
	Aliases: []string{"rm"},
	Short:   "Remove the cookie jar stored under NAME",
	Args:    cobra.ExactArgs(1),
	RunE:    runCookiesDelete,
}

func init() {
	rootCmd.AddCommand(cookiesCmd)
	cookiesCmd.AddCommand(cookiesImportCmd)
	cookiesCmd.AddCommand(cookiesShowCmd)
	cookiesCmd.AddCommand(cookiesDeleteCmd)
}

func runCookiesImport(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read cookie jar: %w", err)
	}

	manager, err := cookieManager()
	if err != nil {
		return err
	}
	if err := manager.Save(name, string(data)); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Cookies stored for account %s", name))
	ui.PrintInfo("Use with", "fmpd download --account "+name)
	return nil
}

func runCookiesShow(cmd *cobra.Command, args []string) error {
	manager, err := cookieManager()
	if err != nil {
		return err
	}
	entries, err := manager.LoadEntries(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderEntries(entries))
	return nil
}

func runCookiesDelete(cmd *cobra.Command, args []string) error {
	manager, err := cookieManager()
	if err != nil {
		return err
	}
	if err := manager.Delete(args[0]); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Cookies removed for account %s", args[0]))
	return nil
}

func cookieManager() (*cookies.Manager, error) {
	dir, err := cookies.ConfigDir()
	if err != nil {
		return nil, err
	}
	return cookies.NewManager(dir)
}

// renderEntries formats cookie entries as a table, masking every value
func renderEntries(entries []cookies.Entry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Domain", "Path", "Name", "Value", "Flags", "Expires"})

	for _, e := range entries {
		var flags []string
		if e.IncludeSubdomains {
			flags = append(flags, "subdomains")
		}
		if e.Secure {
			flags = append(flags, "secure")
		}
		if e.HTTPOnly {
			flags = append(flags, "httponly")
		}

		expires := "session"
		if !e.Expires.IsZero() {
			expires = e.Expires.Format(time.DateOnly)
		}

		tw.AppendRow(table.Row{e.Domain, e.Path, e.Name, cookies.Mask(e.Value), strings.Join(flags, ","), expires})
	}

	return tw.Render()
}
