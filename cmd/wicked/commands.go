package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wickedprint/internal/color"
	"wickedprint/internal/logger"
	"wickedprint/internal/output"
	"wickedprint/internal/version"
)

func newSayCmd(c *cli) *cobra.Command {
	var (
		end      string
		sep      string
		interval time.Duration
		colorArg string
		logIt    bool
	)

	cmd := &cobra.Command{
		Use:   "say [words...]",
		Short: "Print one message",
		Long: `Print the words joined by the separator. On a terminal the message is typed out
one character per interval, optionally in color.

Colors: ` + strings.Join(color.Names(), ", ") + `, or a hex value such as #00ff00.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("interval") {
				interval = c.cfg.PrintInterval
			}
			req := output.NewRequest(args...).
				WithEnd(end).
				WithSep(sep).
				WithInterval(interval).
				WithColor(colorArg).
				WithLogging(logIt)
			if err := output.Submit(req); err != nil {
				return err
			}
			return output.Flush(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&end, "end", "\n", "Terminator written after the message")
	flags.StringVar(&sep, "sep", " ", "Separator between words")
	flags.DurationVar(&interval, "interval", output.DefaultInterval, "Pause after each character on a terminal (0 prints at once)")
	flags.StringVarP(&colorArg, "color", "c", "", "Foreground color name or hex value")
	flags.BoolVar(&logIt, "log", false, "Also log the message text")
	return cmd
}

func newReplayCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "replay [file]",
		Short: "Print requests read as JSON lines",
		Long: `Read one JSON request per line from file, or stdin when no file is given, and print
each in order. Keys: values, end, sep, perform_logging, print_interval (seconds), color.
Lines without print_interval use the configured print-interval.

  {"values": ["Testing A......"], "end": ""}
  {"values": [" Complete."], "color": "#FF0000"}`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}
			base := output.NewRequest().WithInterval(c.cfg.PrintInterval)
			if err := replay(cmd.Context(), in, base); err != nil {
				return err
			}
			return output.Flush(cmd.Context())
		},
	}
}

// replay submits every non-blank line of r decoded onto base. It stops at
// the first line that does not decode or is rejected.
func replay(ctx context.Context, r io.Reader, base output.Request) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		req, err := output.DecodeRequestOnto(base, []byte(raw))
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if err := output.Submit(req); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read requests: %w", err)
	}
	logger.Debug("Replay submitted", "count", line)
	return nil
}

func newDemoCmd() *cobra.Command {
	var (
		rounds int
		delay  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the demonstration sequence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return demo(cmd.Context(), rounds, delay)
		},
	}
	cmd.Flags().IntVar(&rounds, "rounds", 3, "Number of test sessions to show")
	cmd.Flags().DurationVar(&delay, "delay", 500*time.Millisecond, "Pretend work between a test and its result")
	return cmd
}

func demo(ctx context.Context, rounds int, delay time.Duration) error {
	step := func(code string) error {
		if err := output.Submit(output.NewRequest(fmt.Sprintf("Testing %s......", code)).WithEnd("")); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		return output.Submit(output.NewRequest(" Complete.").WithColor("#FF0000"))
	}

	rule := strings.Repeat("-", 32)
	for i := 0; i < rounds; i++ {
		for _, code := range []string{"A", "B", "C"} {
			if err := step(code); err != nil {
				return err
			}
		}
		if err := output.Submit(output.NewRequest("Test Session Completed.").WithColor("white").WithInterval(50 * time.Millisecond)); err != nil {
			return err
		}
		if err := output.Submit(output.NewRequest(rule).WithInterval(0).WithColor("#808080")); err != nil {
			return err
		}
	}
	if err := output.Submit(output.NewRequest("\n\n" + rule).WithInterval(0).WithColor("#005800")); err != nil {
		return err
	}
	return output.Flush(ctx)
}

func newVersionCmd() *cobra.Command {
	var detailed bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// No configuration or printer needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			if detailed {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersion())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.GetFormattedVersion())
		},
	}
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include commit, build and platform details")
	return cmd
}
