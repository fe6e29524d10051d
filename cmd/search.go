package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/interleads/radar-cli/internal/model"
	"github.com/interleads/radar-cli/internal/queryparse"
	"github.com/interleads/radar-cli/internal/radar"
)

var (
	searchNiche string
	searchCity  string
	searchJSON  bool
	searchXLSX  string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Grade the keyword opportunity for a niche in a city",
	Long: `Runs one opportunity search. Pass --niche and --city explicitly, or a
free-text query like "farmácia em Recife" as a positional argument.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		nicheInput, cityInput, err := searchInputs(args)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		orch, err := initOrchestrator(st)
		if err != nil {
			return err
		}

		report, err := orch.Execute(ctx, nicheInput, cityInput)
		if err != nil {
			return err
		}

		if searchXLSX != "" {
			if err := writeReportXLSX(report, searchXLSX); err != nil {
				return err
			}
			zap.L().Info("report exported", zap.String("path", searchXLSX))
		}

		if searchJSON {
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return eris.Wrap(err, "marshal report")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		}

		printReport(cmd, report)
		return nil
	},
}

// searchInputs derives the niche and city from flags or from free text. The
// flags win when both are set; otherwise the positional words go through the
// free-text parser.
func searchInputs(args []string) (nicheInput, cityInput string, err error) {
	if searchNiche != "" && searchCity != "" {
		return searchNiche, searchCity, nil
	}
	if len(args) == 0 {
		return "", "", eris.New("pass --niche and --city, or a free-text query")
	}

	parser := queryparse.NewParser(queryparse.Gazetteer())
	result := parser.Parse(strings.Join(args, " "))
	if !result.Success {
		msg := result.Error
		if result.Suggestion != "" {
			msg += ". " + result.Suggestion
		}
		return "", "", eris.New(msg)
	}
	return result.Niche, result.City, nil
}

func printReport(cmd *cobra.Command, report *model.OpportunityReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, radar.Describe(report))
	fmt.Fprintf(out, "Volume total: %d buscas/mês em %d palavras-chave\n", report.TotalVolume, report.KeywordCount)
	fmt.Fprintf(out, "Volume anual estimado: %d buscas\n", report.AnnualVolume)
	if len(report.Keywords) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%-40s %10s %10s %12s\n", "Palavra-chave", "Volume", "CPC (R$)", "Concorrência")
	for _, kw := range report.Keywords {
		fmt.Fprintf(out, "%-40s %10d %10.2f %12s\n", kw.Keyword, kw.SearchVolume, kw.CPC, kw.Competition)
	}
}

func init() {
	searchCmd.Flags().StringVar(&searchNiche, "niche", "", "business niche, e.g. \"farmácia\"")
	searchCmd.Flags().StringVar(&searchCity, "city", "", "city name, e.g. \"Recife\"")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the full report as JSON")
	searchCmd.Flags().StringVar(&searchXLSX, "xlsx", "", "also write the report to an XLSX file at this path")
	rootCmd.AddCommand(searchCmd)
}
