package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/orgchart/internal/datasource"
	"github.com/vanderheijden86/orgchart/pkg/config"
	"github.com/vanderheijden86/orgchart/pkg/debug"
	"github.com/vanderheijden86/orgchart/pkg/loader"
	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
	"github.com/vanderheijden86/orgchart/pkg/ui"
	"github.com/vanderheijden86/orgchart/pkg/view"
	"github.com/vanderheijden86/orgchart/pkg/watcher"
)

type tuiOptions struct {
	query string
	watch bool
	title string
}

func newTUICmd(a *app) *cobra.Command {
	var opts tuiOptions
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Browse the chart interactively (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Initial search")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload when the --csv file changes")
	cmd.Flags().StringVar(&opts.title, "title", "", "Header title")
	return cmd
}

// isTerminal reports whether both stdin and stdout are a TTY.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func (a *app) runTUI(cmd *cobra.Command, opts tuiOptions) error {
	if !isTerminal() {
		// Piped output gets the plain outline instead of an alt screen.
		return a.withForest(cmd.Context(), func(_ *datasource.Source, forest model.Forest) error {
			return writeOutline(cmd.OutOrStdout(), viewFlags{query: opts.query}.materialize(a, forest))
		})
	}

	if debug.Enabled() {
		if f, err := openDebugLog(); err == nil {
			defer f.Close()
			debug.SetOutput(f)
		}
	}

	src, closeFn, err := a.openSource()
	if err != nil {
		return err
	}
	defer closeFn()

	forest, err := a.loadForest(cmd.Context(), src)
	if err != nil {
		return err
	}

	session := view.NewSession(a.cfg.Materializer(), ui.SystemClipboard, a.cfg.SessionOptions())
	session.SetForest(forest)
	if opts.query != "" {
		session.SetQuery(opts.query)
	}

	uiOpts := ui.Options{
		Title:       opts.title,
		HideDetails: a.cfg.UI.HideDetails,
		Reload:      a.reloadFunc(src),
	}

	csvPath := a.cfg.Data.CSVPath
	if (opts.watch || a.cfg.Data.Watch) && csvPath != "" {
		uiOpts.Reload = a.fileReloadFunc(src, csvPath)
		w, err := watcher.NewWatcher(csvPath,
			watcher.WithOnError(func(err error) { debug.Log("cli: watcher: %v", err) }),
		)
		if err != nil {
			return err
		}
		if err := w.Start(cmd.Context()); err != nil {
			return fmt.Errorf("watching %s: %w", csvPath, err)
		}
		defer w.Stop()
		uiOpts.Watcher = w
	}

	return runTUIProgram(ui.NewModel(session, uiOpts))
}

// reloadFunc re-reads the persisted records.
func (a *app) reloadFunc(src *datasource.Source) ui.ReloadFunc {
	return func(ctx context.Context) (model.Forest, error) {
		return a.loadForest(ctx, src)
	}
}

// fileReloadFunc treats the watched table as authoritative: each change is
// parsed, persisted and rebuilt.
func (a *app) fileReloadFunc(src *datasource.Source, path string) ui.ReloadFunc {
	return func(ctx context.Context) (model.Forest, error) {
		records, err := loader.LoadFile(path, a.parseOptions())
		if err != nil {
			return nil, err
		}
		if err := src.Replace(ctx, records); err != nil {
			return nil, err
		}
		return orgtree.Build(records, a.cfg.BuildOptions()), nil
	}
}

func openDebugLog() (*os.File, error) {
	dir := config.DataDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
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

	// Optional auto-quit for automated runs: set ORGCHART_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("ORGCHART_TUI_AUTOCLOSE_MS"); v != "" {
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
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
