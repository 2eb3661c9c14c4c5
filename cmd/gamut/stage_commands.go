package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"gamut/internal/config"
	"gamut/internal/pipeline"
	"gamut/internal/session"
	"gamut/internal/stage"
)

func newChartCommand(ctx *commandContext) *cobra.Command {
	var pagesFlag string

	cmd := &cobra.Command{
		Use:   "chart <session>",
		Short: "Generate the test chart and detect its page count",
		Long:  "Generates patch values, lays them out into printable chart pages, and records the page count. Starts a new session if the name is unused.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runStage(cmd, args[0], "chart", true, false,
				session.StatusChartGen, session.StatusChartReady,
				func(cfg *config.Config, logger *slog.Logger) (stage.Handler, error) {
					gen, err := pipeline.NewGenerator(cfg, logger)
					if err != nil {
						return nil, err
					}
					gen.PageOverride = pagesFlag
					return gen, nil
				})
		},
	}
	cmd.Flags().StringVar(&pagesFlag, "pages", "", "Override the detected page count")
	return cmd
}

func newPrintCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "print <session>",
		Short: "Send the chart pages to the printer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runStage(cmd, args[0], "print", false, false,
				session.StatusPrinting, session.StatusPrinted,
				func(cfg *config.Config, logger *slog.Logger) (stage.Handler, error) {
					return pipeline.NewPrinter(cfg, logger)
				})
		},
	}
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var pagesFlag string

	cmd := &cobra.Command{
		Use:   "scan <session>",
		Short: "Scan the printed chart, one page at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runStage(cmd, args[0], "scan", false, false,
				session.StatusScanning, session.StatusScanned,
				func(cfg *config.Config, logger *slog.Logger) (stage.Handler, error) {
					scanner, err := pipeline.NewScanner(cfg, logger, ctx.prompter())
					if err != nil {
						return nil, err
					}
					scanner.PageOverride = pagesFlag
					return scanner, nil
				})
		},
	}
	cmd.Flags().StringVar(&pagesFlag, "pages", "", "Override the recorded page count")
	return cmd
}

func newReadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "read <session>",
		Short: "Measure the scanned chart pages",
		Long:  "Measures each scanned page. When automatic chart recognition fails, prompts for the four fiducial corner coordinates and retries until the page reads or \"quit\" is entered.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runStage(cmd, args[0], "read", false, false,
				session.StatusReading, session.StatusMeasured,
				func(cfg *config.Config, logger *slog.Logger) (stage.Handler, error) {
					return pipeline.NewReader(cfg, logger, ctx.prompter())
				})
		},
	}
}

func newCurveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "curve <session>",
		Short: "Tune the black generation curve interactively",
		Long:  "Builds an intermediate profile, opens viewers for the achievable black extremes, then accepts curve parameter strings until an empty line. Each accepted string replaces the saved parameters and opens a viewer for the resulting curve.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runStage(cmd, args[0], "curve", false, false,
				session.StatusCurveTuning, session.StatusCurveTuned,
				func(cfg *config.Config, logger *slog.Logger) (stage.Handler, error) {
					return pipeline.NewTuner(cfg, logger, ctx.prompter())
				})
		},
	}
}

func newProfileCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "profile <session>",
		Short: "Build the final ICC profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runStage(cmd, args[0], "profile", false, false,
				session.StatusProfiling, session.StatusCompleted,
				func(cfg *config.Config, logger *slog.Logger) (stage.Handler, error) {
					return pipeline.NewProfiler(cfg, logger)
				})
		},
	}
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check <session>",
		Short: "Graph the finished profile's black curve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runStage(cmd, args[0], "check", false, true,
				session.StatusCompleted, session.StatusCompleted,
				func(cfg *config.Config, logger *slog.Logger) (stage.Handler, error) {
					return pipeline.NewChecker(cfg, logger)
				})
		},
	}
}
