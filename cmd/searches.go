package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchesLimit int

var searchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "List recent searches from the log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.ListSearches(ctx, searchesLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, rec := range records {
			fmt.Fprintf(out, "%s  %-20s %-20s nota %s  %d buscas/mês\n",
				rec.CreatedAt.Format("2006-01-02 15:04"),
				rec.Niche, rec.CityName, rec.Grade, rec.PrimaryVolume)
		}
		fmt.Fprintf(out, "%d buscas\n", len(records))
		return nil
	},
}

func init() {
	searchesCmd.Flags().IntVar(&searchesLimit, "limit", 20, "maximum number of records")
	rootCmd.AddCommand(searchesCmd)
}
