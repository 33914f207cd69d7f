package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account. All fields are required and the password must be
confirmed. Registering does not log you in.

Examples:
  mtrack register --name Ada --email ada@example.com --password s3cret --confirm s3cret`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and make the account current",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the current session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	Args:  cobra.NoArgs,
	RunE:  runUsers,
}

// Flags
var (
	authName     string
	authEmail    string
	authPassword string
	authConfirm  string
)

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(usersCmd)

	registerCmd.Flags().StringVar(&authName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&authEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&authPassword, "password", "", "Password")
	registerCmd.Flags().StringVar(&authConfirm, "confirm", "", "Password confirmation")

	loginCmd.Flags().StringVar(&authEmail, "email", "", "Email address")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "Password")
}

func runRegister(cmd *cobra.Command, args []string) error {
	user, err := app.Identity.Register(cmd.Context(), domain.Registration{
		Name:            authName,
		Email:           authEmail,
		Password:        authPassword,
		ConfirmPassword: authConfirm,
	})
	if err != nil {
		return err
	}

	printSuccess(cmd.OutOrStdout(), "Registered %s <%s>. Log in with 'mtrack login'.", user.Name, user.Email)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	session, err := app.Identity.Login(cmd.Context(), authEmail, authPassword)
	if err != nil {
		return err
	}

	if _, err := app.Timers.Load(cmd.Context(), session.ID); err != nil {
		return err
	}

	printSuccess(cmd.OutOrStdout(), "Logged in as %s", session.Name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := app.Identity.Logout(cmd.Context()); err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	user, err := app.CurrentUser(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
	return nil
}

func runUsers(cmd *cobra.Command, args []string) error {
	if _, err := app.CurrentUser(cmd.Context()); err != nil {
		return err
	}

	users, err := app.Identity.Users(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printTitle(out, "Users")
	for _, u := range users {
		fmt.Fprintf(out, "  %-36s  %-20s  %s\n", u.ID, truncate(u.Name, 20), u.Email)
	}
	return nil
}
