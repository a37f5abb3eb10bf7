package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mselser95/protondb-tags/internal/steam"
)

//nolint:gochecknoglobals // Cobra boilerplate
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the Steam users found on this machine",
	Long: `Lists every Steam account with a userdata directory, with the number to
pass to "sync --user" and the sharedconfig.vdf that would be used.`,
	Args: cobra.NoArgs,
	RunE: runUsers,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(usersCmd)
}

func runUsers(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("find home directory: %w", err)
	}
	return listUsers(cmd.OutOrStdout(), home)
}

func listUsers(w io.Writer, home string) error {
	root, err := steam.FindUserdata(home)
	if err != nil {
		return err
	}

	users, err := steam.FindUsers(root)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Steam found at: %s\n\n", root)
	for i, user := range users {
		name := user.PersonaName
		if name == "" {
			name = "(Unknown)"
		}

		steamID, idErr := user.SteamID64()
		if idErr != nil {
			steamID = "-"
		}

		fmt.Fprintf(w, "%d  %-12s %-20s %s\n", i, user.AccountID, steamID, name)
		fmt.Fprintf(w, "   %s\n", user.SharedconfigPath())
	}

	return nil
}
