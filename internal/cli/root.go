// Package cli provides the command-line interface for the rental client.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"staymate/internal/api"
	"staymate/internal/config"
	"staymate/internal/logging"
	"staymate/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Client api.Client
	Store  store.DataStore
}

// NewRootCmd creates the root command for the CLI. configDir selects
// where the session and local database live; empty means the default.
func NewRootCmd(cfg *config.Config, configDir string, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Client = api.NewHTTPClient(api.ClientConfig{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		SessionPath: config.SessionPath(configDir),
	}, logger)

	dataStore, err := store.NewSQLiteStore(config.DatabasePath(configDir))
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize local store, notifications will not persist")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "staymate",
		Short: "staymate - rental listing management CLI",
		Long: `staymate is a command-line client for a rental listing marketplace.

Hosts create and publish listings with availability windows, review booking
requests and track profits. Guests search listings, request stays and leave
reviews. The watch mode polls for booking changes and raises notifications.

Use 'staymate help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/staymate)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addAuthCommands(rootCmd, app)
	addListingCommands(rootCmd, app)
	addBookingCommands(rootCmd, app)
	addSearchCommands(rootCmd, app)
	addAnalyticsCommands(rootCmd, app)
	addNotificationCommands(rootCmd, app)
	addWatchCommands(rootCmd, app)
	addConfigCommands(rootCmd, app)
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			output.Printf("staymate %s\n", Version)
		},
	}
}
