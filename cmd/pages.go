package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Krishjain2911/gatsby/internal/pages"
)

var pagesCmd = &cobra.Command{
	Use:   "pages [pages.db]",
	Short: "List the pages persisted in a registry database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := pages.NewSQLiteRegistry(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = reg.Close() }()

		all, err := reg.All()
		if err != nil {
			return err
		}
		for _, p := range all {
			fmt.Printf("%s\t%s\n", p.Route, p.File)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}
