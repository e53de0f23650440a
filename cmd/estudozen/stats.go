package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"estudozen/internal/bootstrap"
	statsdto "estudozen/internal/modules/stats/dto"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	stats := &cobra.Command{Use: "stats", Short: "Study ledger and reports"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show totals and streaks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				summary, scheduled, err := app.StatsCLI.Show(ctx)
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "total study time:   %d min\n", summary.TotalStudyTime)
				_, _ = fmt.Fprintf(w, "sessions completed: %d of %d recorded\n", summary.SessionsCompleted, summary.SessionsRecorded)
				_, _ = fmt.Fprintf(w, "study streak:       %s (longest %d)\n", green(fmt.Sprintf("%d days", summary.StudyStreak)), summary.LongestStreak)
				if !summary.LastStudyDate.IsZero() {
					_, _ = fmt.Fprintf(w, "last study day:     %s\n", summary.LastStudyDate.Format("Mon 02 Jan 2006"))
				}
				if err != nil {
					warning(cmd.ErrOrStderr(), "scheduled study unavailable: %v", err)
					return nil
				}
				if scheduled.Total > 0 {
					_, _ = fmt.Fprintf(w, "scheduled study:    %d/%d done (%.0f%%)\n", scheduled.Completed, scheduled.Total, scheduled.Ratio*100)
				}
				return nil
			})
		},
	}

	weekly := &cobra.Command{
		Use:   "weekly",
		Short: "Minutes per day this week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				return printBuckets(cmd, app.StatsCLI.Weekly(ctx))
			})
		},
	}

	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Minutes per month, last six months",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				return printBuckets(cmd, app.StatsCLI.Monthly(ctx))
			})
		},
	}

	types := &cobra.Command{
		Use:   "types",
		Short: "Minutes per session type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				shares := app.StatsCLI.Types(ctx)
				if len(shares) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no completed sessions")
					return nil
				}
				table := newTable(cmd.OutOrStdout(), "Type", "Minutes")
				for _, s := range shares {
					_ = table.Append([]string{s.Type, fmt.Sprint(s.Minutes)})
				}
				return table.Render()
			})
		},
	}

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "Recent session records, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				records, err := app.StatsCLI.History(ctx, limit)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions recorded")
					return nil
				}
				table := newTable(cmd.OutOrStdout(), "Start", "Type", "Minutes", "Status", "ID")
				for _, r := range records {
					status := yellow("partial")
					if r.Completed {
						status = green("completed")
					}
					_ = table.Append([]string{
						r.StartTime.Local().Format("2006-01-02 15:04"),
						r.Type,
						fmt.Sprint(r.DurationMinutes),
						status,
						r.ID,
					})
				}
				return table.Render()
			})
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "number of records")

	reindex := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the session index from the ledger and journal notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				n, err := app.StatsCLI.Reindex(ctx)
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "indexed %d sessions", n)
				return nil
			})
		},
	}

	var confirm bool
	reset := &cobra.Command{
		Use:   "reset --yes",
		Short: "Erase the ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("refusing to erase the ledger without --yes")
			}
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				if err := app.StatsCLI.Reset(ctx); err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "ledger reset")
				return nil
			})
		},
	}
	reset.Flags().BoolVar(&confirm, "yes", false, "confirm")

	stats.AddCommand(show, weekly, monthly, types, history, reindex, reset)
	return stats
}

func printBuckets(cmd *cobra.Command, buckets []statsdto.BucketOutput) error {
	peak := 0
	for _, b := range buckets {
		peak = max(peak, b.Minutes)
	}
	table := newTable(cmd.OutOrStdout(), "", "Minutes", "")
	for _, b := range buckets {
		_ = table.Append([]string{b.Label, fmt.Sprint(b.Minutes), cyan(bar(b.Minutes, peak, 30))})
	}
	return table.Render()
}
