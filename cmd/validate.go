package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sdr-ops/internal/store"
	"github.com/sells-group/sdr-ops/internal/validation"
)

var validateVerbose bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the data quality suite over all leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		leads, err := st.ListLeads(ctx, store.LeadFilter{Limit: 10000})
		if err != nil {
			return err
		}

		report := validation.Run(leads)

		if validateVerbose {
			if err := printJSON(report); err != nil {
				return err
			}
		} else {
			fmt.Printf("checked %d lead(s): %d valid, %d invalid, avg quality %.1f\n",
				report.Total, report.Valid, report.Invalid, report.AvgQuality)
			for _, dup := range report.Duplicates {
				fmt.Printf("duplicate email %s: %d lead(s)\n", dup.Email, len(dup.LeadIDs))
			}
		}

		if report.Invalid > 0 {
			return eris.Errorf("%d lead(s) failed validation", report.Invalid)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateVerbose, "verbose", false, "Print the full per-lead report as JSON")
	rootCmd.AddCommand(validateCmd)
}
