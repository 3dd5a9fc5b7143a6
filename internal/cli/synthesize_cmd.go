package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSynthesizeCmd(app *App) *cobra.Command {
	var render bool
	var width int

	cmd := &cobra.Command{
		Use:   "synthesize <session-id>",
		Short: "Generate the whitepaper document for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}

			doc, err := app.Synthesizer.Synthesize(cmd.Context(), id)
			if err != nil {
				return err
			}

			if render {
				r, err := glamour.NewTermRenderer(
					glamour.WithAutoStyle(),
					glamour.WithWordWrap(width),
				)
				if err != nil {
					return err
				}
				if doc, err = r.Render(doc); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc)
			return nil
		},
	}
	cmd.Flags().BoolVar(&render, "render", false, "Pretty-print the markdown for a terminal")
	cmd.Flags().IntVar(&width, "width", 100, "Word wrap width when rendering")
	return cmd
}
