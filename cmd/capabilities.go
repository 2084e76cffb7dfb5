package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-dashboard/internal/rbac"
	userPostgres "github.com/frahmantamala/expense-dashboard/internal/user/postgres"
)

var (
	capUserID    string
	capCompanyID string
	capExplain   bool
	capJSON      bool
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Print what a user may do",
	Long:  `Resolve the capability matrix of a stored user, optionally scoped to a company, exactly as the API would.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		repo := userPostgres.NewRepository(db)
		u, err := repo.GetByID(ctx, capUserID)
		if err != nil {
			return err
		}
		roles, err := repo.ListAssignments(ctx, capUserID)
		if err != nil {
			return err
		}
		u.CompanyRoles = roles

		return printCapabilities(cmd.OutOrStdout(), u.Identity(), capCompanyID, capExplain, capJSON)
	},
}

func printCapabilities(w io.Writer, u *rbac.User, companyID string, explain, asJSON bool) error {
	decisions := rbac.Explain(u, companyID)

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if explain {
			return enc.Encode(decisions)
		}
		return enc.Encode(rbac.Matrix(u, companyID))
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if explain {
		fmt.Fprintln(tw, "CAPABILITY\tALLOWED\tGLOBAL\tCOMPANY\tREASON")
		for _, d := range decisions {
			fmt.Fprintf(tw, "%s\t%t\t%s\t%s\t%s\n", d.Capability, d.Allowed, d.EffectiveRole.Global, d.EffectiveRole.Company, d.Reason)
		}
	} else {
		fmt.Fprintln(tw, "CAPABILITY\tALLOWED")
		for _, d := range decisions {
			fmt.Fprintf(tw, "%s\t%t\n", d.Capability, d.Allowed)
		}
	}
	return tw.Flush()
}

func init() {
	capabilitiesCmd.Flags().StringVar(&capUserID, "user", "", "User id to resolve")
	capabilitiesCmd.Flags().StringVar(&capCompanyID, "company", "", "Company id to scope the check to")
	capabilitiesCmd.Flags().BoolVar(&capExplain, "explain", false, "Show effective roles and the reason for each decision")
	capabilitiesCmd.Flags().BoolVar(&capJSON, "json", false, "Print JSON instead of a table")
	_ = capabilitiesCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(capabilitiesCmd)
}
