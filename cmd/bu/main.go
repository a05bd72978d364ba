package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/beads-tui/internal/datasource"
	"github.com/vanderheijden86/beads-tui/pkg/config"
	"github.com/vanderheijden86/beads-tui/pkg/debug"
	"github.com/vanderheijden86/beads-tui/pkg/ui"
	"github.com/vanderheijden86/beads-tui/pkg/version"
	"github.com/vanderheijden86/beads-tui/pkg/watcher"
	"github.com/vanderheijden86/beads-tui/pkg/writer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, exitMessage(err))
		os.Exit(1)
	}
}

type options struct {
	dbPath      string
	refresh     int
	noWatch     bool
	brPath      string
	showVersion bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "bu",
		Short:         "Terminal dashboard for beads issues",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Browse the workspace in the current directory
  bu

  # Point at another database and refresh every 10 seconds
  bu --db ~/src/api/.beads/beads.db --refresh 10

  # Rely on periodic refresh only
  bu --no-watch
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(cmd.OutOrStdout(), "bu %s\n", version.Version)
				return nil
			}
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), opts.dbPath, cfg)
		},
	}

	opts.bind(cmd)
	return cmd
}

func (o *options) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.dbPath, "db", "", "Path to beads.db (default .beads/beads.db or $BEADS_DIR/beads.db)")
	f.IntVar(&o.refresh, "refresh", 3, "Auto-refresh interval in seconds (0 disables)")
	f.BoolVar(&o.noWatch, "no-watch", false, "Disable reloading when the database file changes")
	f.StringVar(&o.brPath, "br", "", "Path to the br executable")
	f.BoolVar(&o.showVersion, "version", false, "Show version")
}

// resolveConfig layers flags over the config file over defaults. A broken
// config file is reported and replaced by defaults.
func resolveConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	if cmd.Flags().Changed("refresh") {
		if opts.refresh < 0 {
			return cfg, fmt.Errorf("--refresh must be >= 0, got %d", opts.refresh)
		}
		refresh := opts.refresh
		cfg.RefreshSeconds = &refresh
	}
	if opts.noWatch {
		cfg.Watch = config.Bool(false)
	}
	if opts.brPath != "" {
		cfg.BrPath = opts.brPath
	}
	return cfg, nil
}

// exitMessage formats err for stderr.
func exitMessage(err error) string {
	var nf *datasource.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error() + "\nRun 'br init' to initialize a beads workspace."
	}
	return "Error: " + err.Error()
}

func run(ctx context.Context, dbFlag string, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath, err := datasource.ResolveDBPath(dbFlag)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("bu needs an interactive terminal")
	}

	if debug.Enabled() {
		closer, err := openDebugLog()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug log unavailable: %v\n", err)
		} else {
			defer closer.Close()
		}
	}

	store := datasource.NewStore(dbPath)
	issues, err := store.LoadAll(ctx)
	if err != nil {
		return err
	}
	debug.Log("loaded %d issues from %s", len(issues), dbPath)

	backend := writer.NewBrCLI(
		writer.WithBinary(cfg.BrPath),
		writer.WithDir(datasource.WorkspaceDir(dbPath)),
	)

	var w *watcher.Watcher
	if cfg.WatchEnabled() {
		w = startWatcher(dbPath)
		if w != nil {
			defer w.Stop()
		}
	}

	m := ui.NewModel(ui.Options{
		Loader:          store,
		Backend:         backend,
		Watcher:         w,
		Renderer:        lipgloss.DefaultRenderer(),
		Issues:          issues,
		RefreshInterval: time.Duration(cfg.Refresh()) * time.Second,
		UI:              cfg.UI,
		Version:         version.Version,
	})

	final, err := runTUIProgram(m)
	if err != nil {
		return fmt.Errorf("running bu: %w", err)
	}
	savePrefs(final.Prefs())
	return final.Err()
}

// openDebugLog points debug output at the state directory, since the TUI
// owns the terminal.
func openDebugLog() (io.Closer, error) {
	dir := config.StateDir()
	if dir == "" {
		return nil, errors.New("cannot determine state directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := tea.LogToFile(filepath.Join(dir, "debug.log"), "bu")
	if err != nil {
		return nil, err
	}
	debug.SetOutput(f)
	return f, nil
}

func startWatcher(dbPath string) *watcher.Watcher {
	w, err := watcher.NewWatcher(dbPath,
		watcher.WithOnError(func(err error) {
			debug.Log("watcher: %v", err)
		}),
	)
	if err != nil {
		debug.Log("watcher disabled: %v", err)
		return nil
	}
	if err := w.Start(); err != nil {
		debug.Log("watcher disabled: %v", err)
		return nil
	}
	debug.Log("watching %s (polling=%v, fs=%s)", dbPath, w.IsPolling(), w.FilesystemType())
	return w
}

// savePrefs writes the session's UI preferences back to the config file,
// leaving the other settings as the file had them.
func savePrefs(prefs config.UIConfig) {
	cfg, err := config.Load()
	if err != nil {
		debug.Log("not saving preferences: %v", err)
		return
	}
	cfg.UI = prefs
	if err := config.Save(cfg); err != nil {
		debug.Log("saving preferences: %v", err)
	}
}

func runTUIProgram(m ui.Model) (ui.Model, error) {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set BU_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("BU_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	final, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		err = nil
	}
	if fm, ok := final.(ui.Model); ok {
		return fm, err
	}
	return m, err
}
