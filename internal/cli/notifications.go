// Package cli provides the command-line interface for the rental client.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"staymate/internal/models"
	"staymate/internal/store"
)

// addNotificationCommands adds the notifications command group.
func addNotificationCommands(rootCmd *cobra.Command, app *App) {
	notificationsCmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "Manage stored booking notifications",
		Long: `Manage the local notification log. Notifications are recorded by the
watch command whenever a booking request appears or changes status.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored notifications",
		Example: `  staymate notifications list
  staymate notifications list --unread
  staymate notifications list --kind booking_request --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				err := fmt.Errorf("local store is not available")
				output.Error("%v", err)
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			unread, _ := cmd.Flags().GetBool("unread")
			kind, _ := cmd.Flags().GetString("kind")
			limit, _ := cmd.Flags().GetInt("limit")

			filter := store.NotificationFilter{
				Unread: unread,
				Kind:   models.EventKind(kind),
				Limit:  limit,
			}
			events, err := app.Store.GetNotifications(ctx, filter)
			if err != nil {
				output.Error("Could not read notifications: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(events)
			}
			if len(events) == 0 {
				output.Info("No notifications")
				return nil
			}

			table := NewTable(output, "ID", "When", "Message", "Read")
			for _, e := range events {
				read := output.ColoredString(ColorDim, "no")
				if e.Read {
					read = "yes"
				}
				table.AddRow(e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Message, read)
			}
			table.Render()
			return nil
		},
	}
	listCmd.Flags().Bool("unread", false, "only unread notifications")
	listCmd.Flags().String("kind", "", "filter by kind (booking_request, booking_accepted, booking_declined)")
	listCmd.Flags().Int("limit", 0, "maximum number of notifications to show")

	readCmd := &cobra.Command{
		Use:   "read [notification-id]",
		Short: "Mark notifications as read",
		Long:  `Mark one notification as read, or all of them with --all.`,
		Args:  cobra.MaximumNArgs(1),
		Example: `  staymate notifications read b42-new
  staymate notifications read --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				err := fmt.Errorf("local store is not available")
				output.Error("%v", err)
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			all, _ := cmd.Flags().GetBool("all")
			switch {
			case all:
				if err := app.Store.MarkAllNotificationsRead(ctx); err != nil {
					output.Error("Could not mark notifications read: %v", err)
					return err
				}
				output.Success("All notifications marked as read")
			case len(args) == 1:
				if err := app.Store.MarkNotificationRead(ctx, args[0]); err != nil {
					output.Error("Could not mark notification read: %v", err)
					return err
				}
				output.Success("Notification %s marked as read", args[0])
			default:
				err := fmt.Errorf("provide a notification id or --all")
				output.Error("%v", err)
				return err
			}
			return nil
		},
	}
	readCmd.Flags().Bool("all", false, "mark every notification as read")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				err := fmt.Errorf("local store is not available")
				output.Error("%v", err)
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := app.Store.ClearNotifications(ctx); err != nil {
				output.Error("Could not clear notifications: %v", err)
				return err
			}
			output.Success("Notification log cleared")
			return nil
		},
	}

	notificationsCmd.AddCommand(listCmd, readCmd, clearCmd)
	rootCmd.AddCommand(notificationsCmd)
}
