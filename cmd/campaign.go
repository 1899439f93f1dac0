package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sdr-ops/internal/prompt"
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Manage qualification campaigns",
}

var (
	campaignName    string
	campaignVariant string
)

var campaignCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a campaign",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := prompt.Validate(campaignVariant); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		campaign, err := st.CreateCampaign(ctx, campaignName, campaignVariant)
		if err != nil {
			return err
		}

		return printJSON(campaign)
	},
}

var campaignListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		campaigns, err := st.ListCampaigns(ctx, 100)
		if err != nil {
			return err
		}

		for _, c := range campaigns {
			fmt.Printf("%s  %-10s variant=%s  %s\n", c.ID, c.Status, c.PromptVariant, c.Name)
		}
		fmt.Printf("%d campaign(s)\n", len(campaigns))
		return nil
	},
}

var campaignRunCmd = &cobra.Command{
	Use:   "run <campaign-id> [lead-id...]",
	Short: "Qualify leads under a campaign",
	Long:  "Runs the qualification pipeline for the given leads under the campaign's prompt variant. Without explicit lead IDs, processes new leads up to the configured per-run cap.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		q := initQualifier(st)
		report, err := initRunner(st, q).Run(ctx, args[0], args[1:])
		if err != nil {
			return err
		}

		if err := printJSON(report); err != nil {
			return err
		}
		if len(report.Failures) > 0 {
			return eris.Errorf("%d lead(s) failed", len(report.Failures))
		}
		return nil
	},
}

var campaignStatsCmd = &cobra.Command{
	Use:   "stats <campaign-id>",
	Short: "Show campaign outcome counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.CampaignStats(ctx, args[0])
		if err != nil {
			return err
		}

		return printJSON(stats)
	},
}

func init() {
	campaignCreateCmd.Flags().StringVar(&campaignName, "name", "", "Campaign name (required)")
	campaignCreateCmd.Flags().StringVar(&campaignVariant, "variant", "A", "Prompt variant (A or B)")
	_ = campaignCreateCmd.MarkFlagRequired("name")

	campaignCmd.AddCommand(campaignCreateCmd, campaignListCmd, campaignRunCmd, campaignStatsCmd)
	rootCmd.AddCommand(campaignCmd)
}
