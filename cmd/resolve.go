package cmd

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/Krishjain2911/gatsby/internal/diag"
	"github.com/Krishjain2911/gatsby/internal/scan"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [plural-type] [record-id]",
	Short: "Derive the route for one record of a collection",
	Long: `Scans the site root for collection templates, looks the record up in
the records document by id, and prints the route its template derives.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pluralName, recordID := args[0], args[1]

		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}

		sink := diag.LogSink{}
		siteFS := osfs.New(cfg.Root)
		store, registry, _, err := buildSite(cfg, siteFS, sink)
		if err != nil {
			return err
		}

		scanner := &scan.Scanner{
			FS:       siteFS,
			Root:     ".",
			Pattern:  cfg.Pattern,
			Registry: registry,
			Sink:     sink,
		}
		if err := scanner.Scan(); err != nil {
			return err
		}

		rec, err := store.Resolve(recordID)
		if err != nil {
			return err
		}
		route, err := registry.DeriveRoute(pluralName, rec, store.Resolve)
		if err != nil {
			return err
		}
		fmt.Println(route)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
