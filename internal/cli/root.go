// Package cli provides the command-line interface for the trading diary.
package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trading-diary/internal/auth"
	"trading-diary/internal/coach"
	"trading-diary/internal/config"
	apperrors "trading-diary/internal/errors"
	"trading-diary/internal/logging"
	"trading-diary/internal/models"
	"trading-diary/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-06-01"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
	Auth   *auth.Service
	Coach  *coach.Coach
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize SQLite store
	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, most commands will be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	if app.Store != nil {
		app.Auth = auth.NewService(app.Store, config.DefaultConfigDir())
	}

	// Initialize the coach if an OpenAI API key is available
	if cfg.HasCoachKey() {
		client := coach.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Coach.Model, cfg.Coach.Temperature, cfg.Coach.MaxTokens)
		app.Coach = coach.New(client, cfg.Coach.Model, logger)
		logger.Debug().Str("model", cfg.Coach.Model).Msg("Coach initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "diary",
		Short: "Trading Diary - a performance journal for traders",
		Long: `Trading Diary is a journal and performance tracker for discretionary traders.

Record trades with setups, mistakes and emotions, review win rates, streaks
and equity curves, track capital growth milestones, and get AI mentor feedback
on your trading.

Use 'diary help <command>' for more information about a command.`,
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
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trading-diary)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addAuthCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addDashboardCommands(rootCmd, app)
	addChallengeCommands(rootCmd, app)
	addSetupCommands(rootCmd, app)
	addAnalyzeCommands(rootCmd, app)

	return rootCmd
}

// errStoreUnavailable is returned when commands run without a working store.
var errStoreUnavailable = apperrors.ErrDatabaseError

// requireUser resolves the signed-in user or fails the command.
func (app *App) requireUser(ctx context.Context, output *Output) (*models.User, error) {
	if app.Store == nil || app.Auth == nil {
		output.Error("Store not initialized.")
		return nil, apperrors.ErrDatabaseError
	}
	user, err := app.Auth.CurrentUser(ctx)
	if err != nil {
		output.Error("Not signed in. Run 'diary login' first.")
		return nil, err
	}
	return user, nil
}

// profileOrDefault loads the user's profile, seeding a default one if missing.
func (app *App) profileOrDefault(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := app.Store.GetProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if apperrors.Is(err, apperrors.ErrProfileNotFound) {
		profile = models.NewProfile(userID)
		if err := app.Store.SaveProfile(ctx, profile); err != nil {
			return nil, err
		}
		return profile, nil
	}
	return nil, err
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Trading Diary v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Database")
	output.Printf("  Path:            %s\n", cfg.Database.Path)
	output.Println()

	output.Bold("UI")
	output.Printf("  Color:           %v\n", cfg.UI.ColorEnabled)
	output.Printf("  Date Format:     %s\n", cfg.UI.DateFormat)
	output.Printf("  Currency:        %s\n", cfg.UI.Currency)
	output.Println()

	output.Bold("Coach")
	output.Printf("  Model:           %s\n", cfg.Coach.Model)
	output.Printf("  Temperature:     %.1f\n", cfg.Coach.Temperature)
	output.Printf("  Max Tokens:      %d\n", cfg.Coach.MaxTokens)
	output.Printf("  API Key Set:     %v\n", cfg.HasCoachKey())

	return nil
}
