package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/sdr-ops/internal/prompt"
)

var qualifyVariant string

var qualifyCmd = &cobra.Command{
	Use:   "qualify <lead-id>",
	Short: "Run the qualification pipeline for a single lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		variant := qualifyVariant
		if variant == "" {
			variant = defaultVariant()
		}
		if err := prompt.Validate(variant); err != nil {
			return err
		}

		in, err := initQualifier(st).Qualify(ctx, args[0], variant)
		if err != nil {
			return err
		}

		return printJSON(in)
	},
}

func init() {
	qualifyCmd.Flags().StringVar(&qualifyVariant, "variant", "", "Prompt variant (A or B)")
	rootCmd.AddCommand(qualifyCmd)
}
