package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/capacity-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/capacity-atlas/pkg/runtime/terminal/export"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	logger   zerolog.Logger
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Logger zerolog.Logger
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		logger:   opts.Logger,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	ctx := cli.logger.WithContext(context.Background())
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capacity-atlas",
		Short: "Storage growth forecasting and license sizing",
	}

	cmd.AddCommand(commands.NewForecastCmd(cli.reporter))
	cmd.AddCommand(commands.NewProfilesCmd())

	return cmd
}
