// Package main provides the wicked CLI, a front end for the paced printer.
// Messages are typed out character by character on a terminal and written
// in one piece everywhere else.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wickedprint/internal/config"
	"wickedprint/internal/logger"
	"wickedprint/internal/output"
)

const dotEnvFile = ".env"

// cli holds what the persistent flags and config loading produce.
type cli struct {
	configFile string
	cfg        *config.Config
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if shutdownErr := output.Shutdown(); shutdownErr != nil {
		logger.Error("Failed to drain output", "error", shutdownErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// newRootCmd builds the command tree. The default output handle is replaced
// before any subcommand runs so it writes to the command's output stream.
func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "wicked",
		Short: "Wicked - paced terminal printing",
		Long: `Wicked prints messages like a typewriter when writing to a terminal and
atomically when output is redirected. Messages are queued and rendered in order
by a background worker.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "Read settings from a yaml, toml or json file")
	flags.String(config.KeyLogLevel, "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String(config.KeyLogFile, "", "Write logs to file instead of stderr")
	flags.Int(config.KeyMaxQueue, 0, "Bound the message queue; older messages are printed immediately when it is full (0 = unbounded)")
	flags.Bool(config.KeyInteractive, false, "Treat this as an interactive session: unpaced messages bypass the queue")
	flags.Bool(config.KeyTestMode, false, "Run in deterministic test mode")

	root.AddCommand(newSayCmd(c), newReplayCmd(c), newDemoCmd(), newVersionCmd())
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.New(), config.Options{
		ConfigFile: c.configFile,
		DotEnvFile: dotEnvFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	c.cfg = cfg

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, cfg.TestMode); err != nil {
		return fmt.Errorf("error configuring logger: %w", err)
	}

	options := []output.Option{
		output.InteractiveSession(cfg.Interactive),
		output.WithMaxQueue(cfg.MaxQueue),
	}
	if w := cmd.OutOrStdout(); w != io.Writer(os.Stdout) {
		options = append(options, output.WithWriter(w))
	}
	if prev := output.SetDefault(output.NewHandle(options...)); prev != nil {
		if err := prev.Stop(); err != nil {
			return fmt.Errorf("error stopping previous printer: %w", err)
		}
	}

	logger.Debug("Configuration loaded", "max_queue", cfg.MaxQueue, "print_interval", cfg.PrintInterval, "interactive", cfg.Interactive)
	return nil
}
