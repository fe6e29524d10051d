package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/interleads/radar-cli/internal/locsync"
)

var (
	syncCountry string
	syncSeed    bool
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Manage the city catalog",
}

var locationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog cities and their provider location codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		locations, err := st.ListLocations(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, loc := range locations {
			fmt.Fprintf(out, "%-30s %d\n", loc.Name, loc.LocationCode)
		}
		fmt.Fprintf(out, "%d cidades\n", len(locations))
		return nil
	},
}

var locationsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile catalog location codes against the keyword provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := initProvider()
		if err != nil {
			return err
		}

		country := syncCountry
		if country == "" {
			country = cfg.Sync.Country
		}

		result, err := locsync.New(st, provider).Run(ctx, locsync.Options{
			Country:      country,
			SeedCapitals: syncSeed,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, u := range result.Updates {
			fmt.Fprintf(out, "%-30s %d -> %d (%s)\n", u.City, u.OldCode, u.NewCode, u.Source)
		}
		for _, name := range result.Seeded {
			fmt.Fprintf(out, "%-30s novo\n", name)
		}
		fmt.Fprintf(out, "%d atualizadas, %d corretas, %d sem correspondência\n",
			len(result.Updates), result.AlreadyCorrect, len(result.NotFound))

		if len(result.NotFound) > 0 {
			zap.L().Warn("cities without taxonomy match", zap.Strings("cities", result.NotFound))
		}
		return nil
	},
}

func init() {
	locationsSyncCmd.Flags().StringVar(&syncCountry, "country", "", "provider taxonomy country (default from config)")
	locationsSyncCmd.Flags().BoolVar(&syncSeed, "seed-capitals", false, "insert missing capital cities into the catalog")
	locationsCmd.AddCommand(locationsListCmd)
	locationsCmd.AddCommand(locationsSyncCmd)
	rootCmd.AddCommand(locationsCmd)
}
