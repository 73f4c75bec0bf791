package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/orgchart/internal/datasource"
	"github.com/vanderheijden86/orgchart/pkg/config"
	"github.com/vanderheijden86/orgchart/pkg/debug"
	"github.com/vanderheijden86/orgchart/pkg/loader"
	"github.com/vanderheijden86/orgchart/pkg/model"
	"github.com/vanderheijden86/orgchart/pkg/orgtree"
)

// app carries global flags and the loaded configuration to subcommands.
type app struct {
	configPath string
	dbPath     string
	csvPath    string
	debug      bool

	cfg     config.Config
	confirm confirmFunc
}

func newRootCmd() *cobra.Command {
	return newRootCmdFor(&app{confirm: huhConfirm})
}

func newRootCmdFor(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "orgchart",
		Short:         "Browse and render an organization chart from a CSV of people",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd, tuiOptions{})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/orgchart/config.yaml)")
	pf.StringVar(&a.dbPath, "db", "", "SQLite file holding the persisted records, or :memory:")
	pf.StringVar(&a.csvPath, "csv", "", "Seed table (CSV or XLSX) used when nothing is persisted")
	pf.BoolVar(&a.debug, "debug", false, "Write debug logs to stderr")

	cmd.AddCommand(
		newTUICmd(a),
		newTreeCmd(a),
		newServeCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newResetCmd(a),
		newDumpCmd(a),
		newStatsCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command and exits with its code.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func (a *app) init() error {
	if a.debug {
		debug.SetOutput(os.Stderr)
	}

	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFrom(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return withCode(exitUsage, err)
	}
	if a.dbPath != "" {
		a.cfg.Data.DBPath = a.dbPath
	}
	if a.csvPath != "" {
		a.cfg.Data.CSVPath = a.csvPath
	}
	debug.Log("cli: db=%s csv=%s", a.cfg.DBPath(), a.cfg.Data.CSVPath)
	return nil
}

func (a *app) parseOptions() loader.ParseOptions {
	return loader.ParseOptions{
		Columns: a.cfg.LoaderColumns(),
		WarningHandler: func(msg string) {
			fmt.Fprintln(os.Stderr, "warning:", msg)
		},
	}
}

func (a *app) seed() datasource.SeedFunc {
	if a.cfg.Data.CSVPath != "" {
		return datasource.FileSeed(a.cfg.Data.CSVPath, a.parseOptions())
	}
	return datasource.BundledSeed(a.parseOptions())
}

// memoryDB selects a throwaway in-process store instead of SQLite.
const memoryDB = ":memory:"

// openSource opens the record store. The returned close func must be called.
func (a *app) openSource() (*datasource.Source, func(), error) {
	if a.cfg.DBPath() == memoryDB {
		return datasource.NewSource(datasource.NewRecordStore(datasource.NewMemStore()), a.seed()), func() {}, nil
	}
	store, err := datasource.OpenSQLite(a.cfg.DBPath())
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			debug.Log("cli: closing store: %v", err)
		}
	}
	return datasource.NewSource(datasource.NewRecordStore(store), a.seed()), closeFn, nil
}

// loadForest builds the canonical forest. No data is not an error here; the
// views render their empty state.
func (a *app) loadForest(ctx context.Context, src *datasource.Source) (model.Forest, error) {
	records, err := src.Load(ctx)
	if errors.Is(err, datasource.ErrNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return orgtree.Build(records, a.cfg.BuildOptions()), nil
}

// withForest opens the store, loads the forest and runs fn.
func (a *app) withForest(ctx context.Context, fn func(src *datasource.Source, forest model.Forest) error) error {
	src, closeFn, err := a.openSource()
	if err != nil {
		return err
	}
	defer closeFn()

	forest, err := a.loadForest(ctx, src)
	if err != nil {
		return err
	}
	return fn(src, forest)
}
