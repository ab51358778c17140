// Package cli provides the command-line interface for the rental client.
package cli

import (
	"github.com/spf13/cobra"

	"staymate/internal/config"
)

// addConfigCommands adds configuration management commands.
func addConfigCommands(rootCmd *cobra.Command, app *App) {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented config.toml with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			configDir, _ := cmd.Flags().GetString("config")

			path, err := config.WriteTemplate(configDir)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			output.Success("Wrote %s", path)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}

			output.Bold("API")
			output.Printf("  base_url: %s\n", app.Config.API.BaseURL)
			output.Printf("  timeout:  %s\n", app.Config.API.Timeout)
			output.Bold("Polling")
			output.Printf("  enabled:  %t\n", app.Config.Polling.Enabled)
			output.Printf("  interval: %s\n", app.Config.Polling.Interval)
			output.Bold("Notifications")
			output.Printf("  level:    %s\n", app.Config.Notifications.Level)
			output.Printf("  webhook:  %t\n", app.Config.Notifications.Webhook.Enabled)
			output.Bold("Logging")
			output.Printf("  level:    %s\n", app.Config.Logging.Level)
			return nil
		},
	})

	rootCmd.AddCommand(configCmd)
}
