package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"estudozen/internal/bootstrap"
	timerdto "estudozen/internal/modules/timer/dto"
	timerview "estudozen/internal/ui/views/timer"
)

func newTimerCmd(opts *rootOptions) *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Study timer"}

	var sessionType, activity, audio string
	start := &cobra.Command{
		Use:   "start",
		Short: "Start or resume the timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.TimerCLI.Start(ctx, sessionType, activity, audio)
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	start.Flags().StringVar(&sessionType, "type", "", "session type, e.g. pomodoro|stopwatch|reading")
	start.Flags().StringVar(&activity, "activity", "", "activity to log with the session")
	start.Flags().StringVar(&audio, "audio", "", "background audio in use")

	pause := &cobra.Command{
		Use:   "pause",
		Short: "Pause the running timer and record the segment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.TimerCLI.Pause(ctx)
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Stop the timer and return to idle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.TimerCLI.Reset(ctx)
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				printSession(cmd.OutOrStdout(), app.TimerCLI.Status(ctx))
				return nil
			})
		},
	}

	duration := &cobra.Command{
		Use:   "duration <minutes>",
		Short: "Set the count-down length (idle only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minutes, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("minutes must be a whole number: %q", args[0])
			}
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.TimerCLI.SetDuration(ctx, minutes)
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	mode := &cobra.Command{
		Use:   "mode <up|down>",
		Short: "Switch between stopwatch and count-down (idle only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.TimerCLI.SetMode(ctx, args[0])
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	note := &cobra.Command{
		Use:   "note <activity>",
		Short: "Attach an activity to the current session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.TimerCLI.Annotate(ctx, strings.Join(args, " "), audio, sessionType)
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	note.Flags().StringVar(&audio, "audio", "", "background audio in use")
	note.Flags().StringVar(&sessionType, "type", "", "session type")

	timer.AddCommand(start, pause, reset, status, duration, mode, note)
	return timer
}

func printSession(w io.Writer, s timerdto.SessionOutput) {
	_, _ = fmt.Fprintf(w, "%s  %s  %s · %s\n", timerview.Clock(s.Shown()), stateColor(s.State), s.Mode, s.Type)
	if s.Mode == "count-down" {
		_, _ = fmt.Fprintf(w, "elapsed %s of %d min\n", timerview.Clock(s.Elapsed), s.InitialDuration/60)
	}
	if len(s.Activities) > 0 {
		_, _ = fmt.Fprintf(w, "activities: %s\n", strings.Join(s.Activities, ", "))
	}
	if s.AudioUsed != "" {
		_, _ = fmt.Fprintf(w, "audio: %s\n", s.AudioUsed)
	}
}
