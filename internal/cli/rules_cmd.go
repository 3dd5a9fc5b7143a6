package cli

import (
	"fmt"
	"text/tabwriter"

	"mindforge-be/internal/constant"
	"mindforge-be/pkg/events"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRulesCmd(app *App) *cobra.Command {
	var showContext bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List learned rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			learned, err := app.Rules.ListActive(ctx)
			if err != nil {
				return err
			}
			if len(learned) == 0 {
				fmt.Fprintln(out, "No learned rules yet.")
			} else {
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCATEGORY\tAPPLIED\tRULE")
				for _, r := range learned {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.Id, r.Category, r.TimesApplied, r.RuleText)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}

			if !showContext {
				return nil
			}
			text, err := app.Rules.Context(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n", text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showContext, "context", false, "Also print the rules context given to the model")

	cmd.AddCommand(newRuleFeedbackCmd(app))
	return cmd
}

func newRuleFeedbackCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <rule-id>",
		Short: "Report that a learned rule was useful",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid rule id %q", args[0])
			}
			ev := events.New(constant.DomainEventRuleFeedback, map[string]interface{}{"rule_id": id.String()})
			if err := app.Feedback.Publish(cmd.Context(), ev); err != nil {
				return fmt.Errorf("publish feedback: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Feedback sent for rule %s.\n", id)
			return nil
		},
	}
}
