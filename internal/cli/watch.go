// Package cli provides the command-line interface for the rental client.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"staymate/internal/errors"
	"staymate/internal/models"
	"staymate/internal/notifications"
	"staymate/internal/notify"
)

// addWatchCommands adds the watch command.
func addWatchCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch bookings and raise notifications",
		Long: `Poll the backend for booking changes and print a notification for every
new booking request on your listings and every accept or decline of your
own requests. A cycle whose fetch fails is skipped; polling resumes on
the next interval.

Runs until interrupted with Ctrl-C.`,
		Example: `  staymate watch
  staymate watch --interval 10s
  staymate watch --once`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if !app.Client.IsAuthenticated() {
				output.Error("Not logged in. Run 'staymate auth login' first.")
				return errors.ErrNotAuthenticated
			}

			interval, _ := cmd.Flags().GetDuration("interval")
			once, _ := cmd.Flags().GetBool("once")
			if interval <= 0 {
				interval = app.Config.Polling.Interval
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// The viewer context decides which events concern this user:
			// requests on their listings, verdicts on their own requests.
			listings, err := fetchListings(ctx, app, false)
			if err != nil {
				output.Error("Could not fetch listings: %v", err)
				return err
			}
			viewer := notifications.NewViewerContext(app.Client.Email(), listings)

			hub := notifications.NewHub()
			defer hub.Close()
			inbox := notifications.NewInbox()

			notifier := notify.NewMultiNotifier(app.Config.Notifications)
			notifier.AddChannel(notify.NewTerminalChannel(!output.IsJSON()))

			events, unsubscribe := hub.Subscribe()
			defer unsubscribe()

			done := make(chan struct{})
			go func() {
				defer close(done)
				for event := range events {
					deliver(app, notifier, event)
				}
			}()

			var snapshots notifications.SnapshotStore
			if app.Store != nil {
				snapshots = app.Store
			}
			poller := notifications.NewPoller(app.Client, snapshots, hub, inbox, app.Logger, notifications.PollerConfig{
				Interval: interval,
				Viewer:   viewer,
			})

			if once {
				delivered := poller.Tick(ctx)
				unsubscribe()
				<-done
				output.Info("Poll cycle complete, %d notification(s)", len(delivered))
				return nil
			}

			output.Info("Watching bookings every %s (Ctrl-C to stop)", interval)
			if err := poller.Run(ctx); err != nil {
				return err
			}

			stop()
			unsubscribe()
			<-done

			output.Println()
			output.Info("Stopped. %d notification(s) this session, %d unread.", len(inbox.All()), inbox.UnreadCount())
			return nil
		},
	}

	cmd.Flags().Duration("interval", 0, "poll interval (default from config)")
	cmd.Flags().Bool("once", false, "run a single poll cycle and exit")

	rootCmd.AddCommand(cmd)
}

// deliver sends one event to the user-facing channels and records it in the
// local notification log. Uses its own timeout so a hung webhook cannot
// outlive the watch shutdown.
func deliver(app *App, notifier *notify.MultiNotifier, event models.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := notifier.Send(ctx, event); err != nil {
		app.Logger.Warn().Err(err).Str("event_id", event.ID).Msg("Notification delivery failed")
	}
	if app.Store != nil {
		if err := app.Store.SaveNotifications(ctx, []models.NotificationEvent{event}); err != nil {
			app.Logger.Warn().Err(err).Str("event_id", event.ID).Msg("Could not persist notification")
		}
	}
}
