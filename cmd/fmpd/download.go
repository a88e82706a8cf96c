package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fmpd/pkg/config"
	"fmpd/pkg/cookies"
	"fmpd/pkg/downloader"
	"fmpd/pkg/facebook"
	"fmpd/pkg/fbid"
	"fmpd/pkg/logger"
	"fmpd/pkg/storage"
	"fmpd/pkg/ui"
	"fmpd/pkg/ui/tui"
)

var (
	// Download command flags
	listFile    string
	cookiesFile string
	userAgent   string
	accountName string
	outputDir   string
	prefix      string
	extension   string
	nameFormat  string
	timeout     time.Duration
	notify      bool
	useTUI      bool
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [fbid...] [-]",
	Short: "Download photos by FBID",
	Long: `Download full-size photos for a list of FBIDs.

The output directory must not exist; it is created for this run. Processing
stops at the first failure and the files written so far are kept.

Cookies come from a Netscape cookie-jar file (cookies.txt, as exported by
browser extensions or written by curl) or from a jar stored in the system
keyring with 'fmpd cookies import'.`,
	Example: `  # Download every FBID in list.txt into ./output
  fmpd download

  # Use another list, cookie jar and output directory
  fmpd download --list photos.txt -c session.txt -o album

  # Name files after their FBID, one folder per year
  fmpd download --name "yyyy/f"

  # Download two photos given on the command line
  fmpd download 10153582534245079 10153582534245080

  # Read identifiers from stdin using cookies stored in the keyring
  cat ids.txt | fmpd download --account me -`,
	Args: cobra.ArbitraryArgs,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	addDownloadFlags(downloadCmd)
}

func addDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&listFile, "list", "l", "", "file with one FBID per line (default \"list.txt\")")
	cmd.Flags().StringVarP(&cookiesFile, "cookies-file", "c", "", "Netscape cookie-jar file (default \"cookies.txt\")")
	cmd.Flags().StringVarP(&userAgent, "agent", "a", "", "User-Agent sent with every request")
	cmd.Flags().StringVar(&accountName, "account", "", "use the cookie jar stored in the keyring under this name")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory, must not exist (default \"output\")")
	cmd.Flags().StringVar(&prefix, "prefix", "", "URL the FBID is appended to")
	cmd.Flags().StringVar(&extension, "extension", "", "extension of written files (default \".jpg\")")
	cmd.Flags().StringVarP(&nameFormat, "name", "n", "", "file name template, may contain / for folders (default \"yyyyMMdd[ i]\")")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "timeout for each HTTP request (0 means none)")
	cmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the run ends")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "show the interactive run view")
}

// commandFlags collects the flags the user actually set, keyed the way
// config.MergeCommandLineFlags expects
func commandFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := func(name string, value interface{}) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			flags[name] = value
		}
	}

	set("list", listFile)
	set("cookies-file", cookiesFile)
	set("agent", userAgent)
	set("account", accountName)
	set("output", outputDir)
	set("prefix", prefix)
	set("extension", extension)
	set("name", nameFormat)
	set("timeout", timeout)
	set("notify", notify)
	set("tui", useTUI)
	set("quiet", quiet)
	set("log-level", logLevel)
	set("log-file", logFile)

	return flags
}

// loadCookieJar returns the stored jar for the configured account, or the
// cookie-jar file otherwise
func loadCookieJar(cfg *config.Config) (http.CookieJar, error) {
	if cfg.Facebook.Account != "" {
		manager, err := cookieManager()
		if err != nil {
			return nil, err
		}
		jar, err := manager.LoadJar(cfg.Facebook.Account)
		if err != nil {
			return nil, fmt.Errorf("failed to load cookies for account %q: %w", cfg.Facebook.Account, err)
		}
		return jar, nil
	}

	jar, err := cookies.LoadJar(cfg.Facebook.CookiesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load cookies: %w", err)
	}
	return jar, nil
}

// interactive reports whether the run view can take over the terminal
func interactive(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Debug("fmpd starting")

	// a re-run must fail on the existing output before anything else is read
	if err := storage.CheckOutputDir(cfg.Output.Directory); err != nil {
		return err
	}
	name, err := storage.ParseNameTemplate(cfg.Output.Name)
	if err != nil {
		return err
	}

	ids, err := fbid.Collect(args, cmd.InOrStdin(), cfg.Input.ListFile)
	if err != nil {
		return err
	}

	jar, err := loadCookieJar(cfg)
	if err != nil {
		return err
	}

	if cfg.Output.Quiet {
		ui.SetQuietMode(true)
	}

	withTUI := cfg.Output.TUI
	if withTUI && !interactive(cmd) {
		ui.PrintWarning("Interactive view needs a terminal, using plain output")
		withTUI = false
	}
	if withTUI {
		// the console belongs to the run view; keep file logging only
		if log, err = logger.NewFileLogger(&cfg.Logging); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	} else {
		ui.PrintLogo()
		ui.PrintInfo("Photos", fmt.Sprintf("%d", len(ids)))
		ui.PrintInfo("Output", cfg.Output.Directory)
	}

	client := facebook.NewClient(cfg.Facebook.Prefix, cfg.Facebook.UserAgent, cfg.Download.Timeout, jar, log)
	d := downloader.New(client, downloader.Options{
		OutputDir: cfg.Output.Directory,
		Extension: cfg.Output.Extension,
		Name:      name,
		Quiet:     cfg.Output.Quiet || withTUI,
	}, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := ui.NewNotifierWithSender(nil)
	if cfg.Output.Notify {
		notifier = ui.NewNotifier()
	}

	var summary *downloader.Summary
	if withTUI {
		summary, err = runWithTUI(ctx, d, ids)
	} else {
		summary, err = d.Run(ctx, ids)
	}
	if err != nil {
		if summary != nil && summary.Processed > 0 {
			ui.PrintWarning("Files written before the failure", summary.Processed)
		}
		notifier.SendError("fmpd failed", err.Error())
		return err
	}

	notifier.SendSuccess("[DONE]", fmt.Sprintf("%d photos in %s", summary.Processed, summary.Elapsed.Round(time.Millisecond)))
	return nil
}

// runWithTUI runs the download in the background while the run view owns the
// terminal. Written paths are printed once the view has closed.
func runWithTUI(ctx context.Context, d *downloader.Downloader, ids []string) (*downloader.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	view := tui.NewTUI(len(ids), os.Stderr, cancel)
	view.Preface("INFO", "Downloading %d photos", len(ids))
	d.SetObserver(view)

	type result struct {
		summary *downloader.Summary
		err     error
	}
	done := make(chan result, 1)
	go func() {
		summary, err := d.Run(ctx, ids)
		view.Finish(err)
		done <- result{summary, err}
	}()

	if err := view.Start(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("interactive view failed: %w", err)
	}

	// the view may close early on q; wait for the cancelled run to unwind
	res := <-done
	if res.summary != nil {
		for _, path := range res.summary.Files {
			ui.PrintResult(path)
		}
	}
	return res.summary, res.err
}
