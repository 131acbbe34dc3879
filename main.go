package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/r381893/hot-work-form/config"
	"github.com/r381893/hot-work-form/internal/editor"
	"github.com/r381893/hot-work-form/internal/export"
	"github.com/r381893/hot-work-form/internal/index"
	"github.com/r381893/hot-work-form/internal/model"
	"github.com/r381893/hot-work-form/internal/photo"
	"github.com/r381893/hot-work-form/internal/program"
	"github.com/r381893/hot-work-form/internal/store"
)

// env is what every command needs: settings, a logger and the open store.
type env struct {
	cfg     *config.AppConfig
	log     *zap.Logger
	backend *store.SQLiteBackend
	opts    editor.Options
}

func (r *env) Close() {
	if r.backend != nil {
		if err := r.backend.Close(); err != nil {
			r.log.Warn("closing store", zap.Error(err))
		}
	}
	_ = r.log.Sync()
}

type rootFlags struct {
	dataDir string
	verbose bool
}

func (f *rootFlags) open() (*env, error) {
	dir := f.dataDir
	if dir == "" {
		var err error
		if dir, err = config.AppDataFolder(config.AppName); err != nil {
			return nil, err
		}
	}

	cfg, _, err := config.GetConfig(dir)
	if err != nil {
		return nil, err
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}
	log, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}

	backend, err := store.OpenSQLite(cfg.Path(cfg.StoreFile))
	if err != nil {
		return nil, err
	}
	fonts, err := export.LoadFonts(cfg.FontPath)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	labels := export.DefaultLabels()
	labels.DateLayout = cfg.DateLayout

	return &env{
		cfg:     cfg,
		log:     log,
		backend: backend,
		opts: editor.Options{
			Store:         store.New(backend, cfg.StoreKey, log.Named("store")),
			Defaults:      model.Defaults{Company: cfg.DefaultCompany},
			AutoSaveDelay: cfg.AutoSaveDelay,
			Photos: &photo.Pipeline{
				MaxDimension: cfg.PhotoMaxDimension,
				Quality:      cfg.PhotoQuality,
				MaxPhotos:    cfg.MaxPhotos,
			},
			Labels:    labels,
			Fonts:     fonts,
			Index:     index.Options{Placeholder: cfg.Placeholder, DateLayout: cfg.DateLayout},
			ExportDir: cfg.Path(cfg.ExportDir),
			Logger:    log.Named("editor"),
		},
	}, nil
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "hotwork",
		Short: "Hot work permit forms",
		Long: `Fill in, save and export hot work permits.

Run without arguments to open the form window. The subcommands work on the
same saved forms without opening a window.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := flags.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			a, err := program.NewMainApp(program.Options{
				Editor:    rt.opts,
				Labels:    rt.opts.Labels,
				StorePath: rt.backend.Path(),
				FontPath:  rt.cfg.FontPath,
				Logger:    rt.log.Named("ui"),
			})
			if err != nil {
				return err
			}
			a.RunApp()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "folder holding config.json and the form database")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newListCmd(flags),
		newExportCmd(flags),
		newDeleteCmd(flags),
		newConfigCmd(flags),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
