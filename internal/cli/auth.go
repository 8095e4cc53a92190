package cli

import (
	"bufio"
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// addAuthCommands adds account commands.
func addAuthCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSignupCmd(app))
	rootCmd.AddCommand(newLoginCmd(app))
	rootCmd.AddCommand(newLogoutCmd(app))
	rootCmd.AddCommand(newWhoamiCmd(app))
}

func newSignupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new diary account",
		Example: `  diary signup --email trader@example.com --name "Alex"
  diary signup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Auth == nil {
				output.Error("Store not initialized.")
				return errStoreUnavailable
			}

			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			password, _ := cmd.Flags().GetString("password")

			if email == "" {
				email = promptLine(output, "Email: ")
			}
			if password == "" {
				password = promptLine(output, "Password: ")
			}

			user, err := app.Auth.SignUp(ctx, email, password, name)
			if err != nil {
				output.Error("Signup failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(user)
			}
			output.Success("✓ Account created for %s", user.Email)
			output.Dim("A default growth challenge has been set up for you.")
			return nil
		},
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("password", "", "account password")
	return cmd
}

func newLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your diary",
		Example: `  diary login --email trader@example.com
  diary login`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Auth == nil {
				output.Error("Store not initialized.")
				return errStoreUnavailable
			}

			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			if email == "" {
				email = promptLine(output, "Email: ")
			}
			if password == "" {
				password = promptLine(output, "Password: ")
			}

			user, err := app.Auth.SignIn(ctx, email, password)
			if err != nil {
				output.Error("Login failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(user)
			}
			output.Success("✓ Signed in as %s", user.Email)
			return nil
		},
	}

	cmd.Flags().String("email", "", "account email")
	cmd.Flags().String("password", "", "account password")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out of your diary",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Auth == nil {
				output.Error("Store not initialized.")
				return errStoreUnavailable
			}

			if err := app.Auth.SignOut(); err != nil {
				output.Error("Logout failed: %v", err)
				return err
			}
			output.Success("✓ Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(user)
			}
			output.Bold("%s", user.Email)
			if user.DisplayName != "" {
				output.Printf("  Name:   %s\n", user.DisplayName)
			}
			output.Printf("  Since:  %s\n", FormatDate(user.CreatedAt))
			return nil
		},
	}
}

// promptLine reads one line of input from stdin.
func promptLine(output *Output, prompt string) string {
	output.Print("%s", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
