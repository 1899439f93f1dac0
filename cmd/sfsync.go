package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sdr-ops/internal/crm"
)

var sfsyncCmd = &cobra.Command{
	Use:   "sfsync",
	Short: "Push qualified leads to Salesforce",
	Long:  "Creates a Salesforce Lead for each qualified lead that has no Salesforce ID yet, matching on contact email to avoid duplicates. Requires Salesforce JWT credentials.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sfClient, err := initSalesforce()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		report, err := crm.NewSyncer(sfClient, st).SyncQualified(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("scanned %d qualified lead(s): %d created, %d linked, %d skipped\n",
			report.Scanned, report.Created, report.Linked, report.Skipped)
		for _, f := range report.Failures {
			fmt.Printf("  %s: %s\n", f.LeadID, f.Error)
		}
		if len(report.Failures) > 0 {
			return eris.Errorf("%d lead(s) failed to sync", len(report.Failures))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sfsyncCmd)
}
