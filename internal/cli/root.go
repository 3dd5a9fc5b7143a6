// Package cli implements forgectl, the operator tool for a MindForge
// deployment.
package cli

import (
	"context"
	"io"

	"mindforge-be/internal/entity"
	"mindforge-be/pkg/events"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type Migrator interface {
	Migrate(ctx context.Context) error
}

type RuleReader interface {
	ListActive(ctx context.Context) ([]*entity.LearnedRule, error)
	Context(ctx context.Context) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, sessionID uuid.UUID) (string, error)
}

// App holds what the commands act on.
type App struct {
	Migrator    Migrator
	Rules       RuleReader
	Synthesizer Synthesizer
	Feedback    events.Publisher
}

func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "forgectl",
		Short:         "Operate a MindForge deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(app),
		newRulesCmd(app),
		newSynthesizeCmd(app),
	)

	return root
}

// Execute runs the command tree against args, writing to out.
func Execute(ctx context.Context, app *App, args []string, out io.Writer) error {
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(ctx)
}
