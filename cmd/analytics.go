package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Pipeline reporting",
}

var analyticsDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Headline pipeline numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		metrics, err := st.DashboardMetrics(ctx)
		if err != nil {
			return err
		}
		return printJSON(metrics)
	},
}

var analyticsDays int

var analyticsDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Per-day qualification counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := st.DailyPerformance(ctx, analyticsDays)
		if err != nil {
			return err
		}
		return printJSON(rows)
	},
}

var analyticsVariantsCmd = &cobra.Command{
	Use:   "variants",
	Short: "Compare prompt variants",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		rows, err := st.VariantComparison(ctx)
		if err != nil {
			return err
		}
		return printJSON(rows)
	},
}

var analyticsFunnelCmd = &cobra.Command{
	Use:   "funnel",
	Short: "Lead counts per lifecycle stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		funnel, err := st.Funnel(ctx)
		if err != nil {
			return err
		}
		return printJSON(funnel)
	},
}

var cohortBy string

var analyticsCohortsCmd = &cobra.Command{
	Use:   "cohorts",
	Short: "Outcome breakdown by industry or company size",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		switch cohortBy {
		case "industry":
			rows, err := st.CohortsByIndustry(ctx)
			if err != nil {
				return err
			}
			return printJSON(rows)
		case "size":
			rows, err := st.CohortsBySize(ctx)
			if err != nil {
				return err
			}
			return printJSON(rows)
		default:
			return eris.Errorf("unknown cohort dimension: %s", cohortBy)
		}
	},
}

func init() {
	analyticsDailyCmd.Flags().IntVar(&analyticsDays, "days", 30, "Window in days")
	analyticsCohortsCmd.Flags().StringVar(&cohortBy, "by", "industry", "Cohort dimension (industry or size)")

	analyticsCmd.AddCommand(
		analyticsDashboardCmd,
		analyticsDailyCmd,
		analyticsVariantsCmd,
		analyticsFunnelCmd,
		analyticsCohortsCmd,
	)
	rootCmd.AddCommand(analyticsCmd)
}
