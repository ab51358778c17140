// Package cli provides the command-line interface for the rental client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// addAuthCommands adds authentication commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the login session",
	}

	authCmd.AddCommand(newLoginCmd(app))
	authCmd.AddCommand(newRegisterCmd(app))
	authCmd.AddCommand(newLogoutCmd(app))
	authCmd.AddCommand(newAuthStatusCmd(app))

	rootCmd.AddCommand(authCmd)
}

func newLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in to the rental backend",
		Example: `  staymate auth login host@example.com
  staymate auth login host@example.com --password secret`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			email := args[0]
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				var err error
				password, err = promptPassword("Password: ")
				if err != nil {
					return err
				}
			}

			if err := app.Client.Login(ctx, email, password); err != nil {
				output.Error("Login failed: %v", err)
				return err
			}

			output.Success("Logged in as %s", email)
			return nil
		},
	}

	cmd.Flags().String("password", "", "password (prompted when omitted)")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "register <email> <name>",
		Short:   "Create a new account",
		Example: `  staymate auth register guest@example.com "Sam Guest"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			email, name := args[0], args[1]
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				var err error
				password, err = promptPassword("Choose a password: ")
				if err != nil {
					return err
				}
			}

			if err := app.Client.Register(ctx, email, password, name); err != nil {
				output.Error("Registration failed: %v", err)
				return err
			}

			output.Success("Account created, logged in as %s", email)
			return nil
		},
	}

	cmd.Flags().String("password", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if !app.Client.IsAuthenticated() {
				output.Info("Not logged in")
				return nil
			}

			if err := app.Client.Logout(ctx); err != nil {
				// Local session is cleared regardless.
				output.Warning("Server logout failed: %v", err)
			}
			output.Success("Logged out")
			return nil
		},
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if !app.Client.IsAuthenticated() {
				output.Info("Not logged in")
				return nil
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"email": app.Client.Email()})
			}
			output.Success("Logged in as %s", app.Client.Email())
			return nil
		},
	}
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimSpace(line)
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}
