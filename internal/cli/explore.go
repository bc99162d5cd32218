package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/selfmap/pkg/drilldown"
	"github.com/matzehuels/selfmap/pkg/viz"
)

// exploreOpts holds the command-line flags for the explore command.
type exploreOpts struct {
	seed  uint64        // drill-down random seed
	delay time.Duration // wait between a click and the drill-down chart
	mouse bool          // enable mouse hover and click
}

// exploreCommand creates the explore command, an interactive terminal view
// of the chart.
func (c *CLI) exploreCommand() *cobra.Command {
	opts := exploreOpts{delay: viz.DefaultDelay, mouse: true}

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Explore an identity map in the terminal",
		Long: `Explore an identity map interactively. Use the arrow keys or tab to hover
points, enter to drill down into a category, esc to go back and q to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				opts.seed = c.Config.Seed
			}
			return c.runExplore(cmd.Context(), fileArg(args, 0), opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "drill-down random seed (default from config)")
	cmd.Flags().DurationVar(&opts.delay, "delay", opts.delay, "delay before the drill-down chart opens")
	cmd.Flags().BoolVar(&opts.mouse, "mouse", opts.mouse, "enable mouse hover and click")

	return cmd
}

// runExplore runs the bubbletea program until the user quits.
func (c *CLI) runExplore(ctx context.Context, input string, opts exploreOpts) error {
	logger := loggerFromContext(ctx)

	m, err := loadData(input)
	if err != nil {
		return err
	}
	if out := m.OutOfRange(); len(out) > 0 {
		logger.Warn("strengths outside 0-10 are drawn as given", "categories", out)
	}

	primaryMode, secondaryMode := c.Config.Modes()
	model := NewExploreModel(viz.NewHeadlessHost(), m,
		viz.WithDimensions(c.Config.PrimaryDimensions(), c.Config.SecondaryDimensions()),
		viz.WithModes(primaryMode, secondaryMode),
		viz.WithGenerator(drilldown.NewSeeded(opts.seed)),
		viz.WithDelay(opts.delay),
		viz.WithContext(ctx),
	)

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(model, progOpts...).Run(); err != nil {
		return err
	}

	printInfo("%s", model.summary())
	return nil
}
