package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sdr-ops/internal/model"
	"github.com/sells-group/sdr-ops/internal/store"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Manage leads",
}

var (
	leadCompany  string
	leadIndustry string
	leadSize     string
	leadEmail    string
	leadContact  string
)

var leadsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a lead",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		lead, err := st.CreateLead(ctx, model.NewLead{
			CompanyName:  leadCompany,
			Industry:     leadIndustry,
			CompanySize:  leadSize,
			ContactEmail: leadEmail,
			ContactName:  leadContact,
		})
		if err != nil {
			return err
		}

		return printJSON(lead)
	},
}

var (
	listStatus   string
	listIndustry string
	listLimit    int
)

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		filter := store.LeadFilter{Industry: listIndustry, Limit: listLimit}
		if listStatus != "" {
			status := model.LeadStatus(listStatus)
			if !model.ValidLeadStatus(status) {
				return eris.Errorf("unknown lead status: %s", listStatus)
			}
			filter.Status = status
		}

		leads, err := st.ListLeads(ctx, filter)
		if err != nil {
			return err
		}

		for _, lead := range leads {
			fmt.Printf("%s  %-12s %3d  %-30s %s\n",
				lead.ID, lead.Status, lead.Score, lead.CompanyName, lead.ContactEmail)
		}
		fmt.Printf("%d lead(s)\n", len(leads))
		return nil
	},
}

var leadsGetCmd = &cobra.Command{
	Use:   "get <lead-id>",
	Short: "Show a lead and its interaction history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		lead, err := st.GetLead(ctx, args[0])
		if err != nil {
			return err
		}
		interactions, err := st.ListLeadInteractions(ctx, lead.ID)
		if err != nil {
			return err
		}

		return printJSON(map[string]any{
			"lead":         lead,
			"interactions": interactions,
		})
	},
}

var leadsDeleteCmd = &cobra.Command{
	Use:   "delete <lead-id>",
	Short: "Delete a lead and its interactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteLead(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

func init() {
	leadsCreateCmd.Flags().StringVar(&leadCompany, "company", "", "Company name (required)")
	leadsCreateCmd.Flags().StringVar(&leadEmail, "email", "", "Contact email (required)")
	leadsCreateCmd.Flags().StringVar(&leadIndustry, "industry", "", "Industry")
	leadsCreateCmd.Flags().StringVar(&leadSize, "size", "", "Company size bracket (e.g. 50-500)")
	leadsCreateCmd.Flags().StringVar(&leadContact, "contact", "", "Contact name")
	_ = leadsCreateCmd.MarkFlagRequired("company")
	_ = leadsCreateCmd.MarkFlagRequired("email")

	leadsListCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	leadsListCmd.Flags().StringVar(&listIndustry, "industry", "", "Filter by industry")
	leadsListCmd.Flags().IntVar(&listLimit, "limit", 100, "Maximum rows")

	leadsCmd.AddCommand(leadsCreateCmd, leadsListCmd, leadsGetCmd, leadsDeleteCmd)
	rootCmd.AddCommand(leadsCmd)
}
