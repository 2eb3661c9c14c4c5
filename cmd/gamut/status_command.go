package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gamut/internal/session"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status [session]",
		Short: "Show profiling sessions and their pipeline progress",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				sess, err := store.GetByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printSessionDetail(cmd, ctx, sess)
			}

			sessions, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No profiling sessions yet. Start one with `gamut chart <name>`.")
				return nil
			}

			rows := make([][]string, 0, len(sessions))
			for _, sess := range sessions {
				rows = append(rows, []string{
					sess.Name,
					sess.Status.Label(),
					strconv.Itoa(sess.PageCount),
					sess.ProfilePath,
					sess.UpdatedAt.Local().Format(time.RFC3339),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{
					{title: "Session"},
					{title: "Status"},
					{title: "Pages", right: true},
					{title: "Profile"},
					{title: "Updated"},
				},
				rows,
			))
			return nil
		},
	}
}

func printSessionDetail(cmd *cobra.Command, ctx *commandContext, sess *session.Session) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	colorize := shouldColorize(cmd.OutOrStdout())

	fmt.Fprintf(out, "Session %s\n", sess.Name)
	kind := statusInfo
	switch sess.Status {
	case session.StatusCompleted:
		kind = statusOK
	case session.StatusFailed:
		kind = statusError
	}
	fmt.Fprintln(out, renderStatusLine("Status", kind, sess.Status.Label(), colorize))
	fmt.Fprintln(out, renderStatusLine("Pages", statusInfo, strconv.Itoa(sess.PageCount), colorize))
	fmt.Fprintln(out, renderStatusLine("Directory", statusInfo, cfg.SessionDir(sess.Name), colorize))
	if sess.ChartPath != "" {
		fmt.Fprintln(out, renderStatusLine("Chart", statusInfo, sess.ChartPath, colorize))
	}
	if sess.MeasurePath != "" {
		fmt.Fprintln(out, renderStatusLine("Measurements", statusInfo, sess.MeasurePath, colorize))
	}
	if sess.ProfilePath != "" {
		fmt.Fprintln(out, renderStatusLine("Profile", statusOK, sess.ProfilePath, colorize))
	}
	if sess.ErrorMessage != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, sess.ErrorMessage, colorize))
	}
	return nil
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <session>",
		Short: "Forget a profiling session",
		Long:  "Removes the session record. Files in the session directory are left in place.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session %s\n", args[0])
			return nil
		},
	}
}
