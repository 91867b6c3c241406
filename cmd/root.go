package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Krishjain2911/gatsby/internal/collection"
	"github.com/Krishjain2911/gatsby/internal/config"
	"github.com/Krishjain2911/gatsby/internal/datastore"
	"github.com/Krishjain2911/gatsby/internal/diag"
	"github.com/Krishjain2911/gatsby/internal/pages"
	"github.com/Krishjain2911/gatsby/internal/pagesync"
	"github.com/Krishjain2911/gatsby/internal/scan"
	"github.com/Krishjain2911/gatsby/internal/watch"
)

var (
	configPath  string
	rootDir     string
	pattern     string
	recordsPath string
	pagesDBPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to site.hcl")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "Site root directory")
	rootCmd.PersistentFlags().StringVarP(&pattern, "pattern", "p", "", "Glob selecting page source files")
	rootCmd.PersistentFlags().StringVarP(&recordsPath, "records", "d", "", "Path to the JSON records document")
	rootCmd.PersistentFlags().StringVar(&pagesDBPath, "pages-db", "", "Persist pages to this SQLite database")
}

var rootCmd = &cobra.Command{
	Use:   "gatsby [site-root]",
	Short: "Keep a generated page set synchronized with a source tree",
	Long: `Scans the site root for page source files, creates a page per file
(one per data record for {Model.field} collection templates), then
watches the tree and applies incremental updates until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runSession(ctx, cfg)
	},
}

// loadConfig resolves the session configuration: site.hcl (when present)
// first, then flags and the positional root on top.
func loadConfig(args []string) (config.Site, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, err
		}
	}
	if len(args) == 1 {
		cfg.Root = args[0]
	}
	if rootDir != "" {
		cfg.Root = rootDir
	}
	if pattern != "" {
		cfg.Pattern = pattern
	}
	if recordsPath != "" {
		cfg.Records = recordsPath
	}
	if pagesDBPath != "" {
		cfg.PagesDB = pagesDBPath
	}
	return cfg, nil
}

// buildSite wires the shared collaborators: record store, collection
// registry and page source.
func buildSite(cfg config.Site, siteFS billy.Filesystem, sink diag.Sink) (*datastore.Store, *collection.Registry, *collection.Source, error) {
	store, err := loadRecords(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	registry := collection.NewRegistry()
	source := &collection.Source{
		FS:      siteFS,
		Root:    ".",
		Records: store,
		Resolve: store.Resolve,
		Sink:    sink,
	}
	return store, registry, source, nil
}

func loadRecords(cfg config.Site) (*datastore.Store, error) {
	if cfg.Records == "" {
		// No records document: collections simply have no members.
		return datastore.Parse([]byte("{}"))
	}
	return datastore.Load(cfg.Records)
}

func runSession(ctx context.Context, cfg config.Site) error {
	if _, err := os.Stat(cfg.Root); err != nil {
		return &pagesync.ConfigurationError{Root: cfg.Root, Err: err}
	}

	sink := diag.LogSink{}
	siteFS := osfs.New(cfg.Root)
	_, registry, source, err := buildSite(cfg, siteFS, sink)
	if err != nil {
		return err
	}

	var pageReg pages.Registry = pages.NewMemoryRegistry()
	if cfg.PagesDB != "" {
		sqlReg, err := pages.NewSQLiteRegistry(cfg.PagesDB)
		if err != nil {
			return err
		}
		defer func() { _ = sqlReg.Close() }()
		pageReg = sqlReg
	}

	engine := pagesync.New(siteFS, ".", cfg.Pattern, source.PagesFor, pageReg, sink)
	scanner := &scan.Scanner{
		FS:       siteFS,
		Root:     ".",
		Pattern:  cfg.Pattern,
		Registry: registry,
		Sink:     sink,
	}

	// The template scan and the initial page scan touch disjoint state,
	// so they run concurrently; both finish before the session is ready.
	var g errgroup.Group
	g.Go(scanner.Scan)
	g.Go(engine.InitialScan)
	if err := g.Wait(); err != nil {
		return err
	}
	log.Printf("ready: %d files tracked, %d collections registered",
		len(engine.Known()), len(registry.Plurals()))

	watcher, err := watch.New(cfg.Root, cfg.Pattern)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	watchErr := make(chan error, 1)
	go func() { watchErr <- watcher.Run(ctx) }()

	if err := engine.Run(ctx, watcher.Events()); err != nil && ctx.Err() == nil {
		return err
	}
	if err := <-watchErr; err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
