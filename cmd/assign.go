package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Pin an account or profile to a repository",
}

var unassignCmd = &cobra.Command{
	Use:   "unassign",
	Short: "Remove a repository pin",
}

var assignAccountCmd = &cobra.Command{
	Use:   "account <repo-path> <account-id>",
	Short: "Pin an account to a repository path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		account := c.Accounts.ByID(args[1])
		if account == nil {
			return fmt.Errorf("no account with id %s", args[1])
		}

		c.Accounts.AssignRepository(args[0], account.ID)
		if err := c.saveAccounts(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "pinned account %s (%s) to %s\n", account.ID, account.Name, args[0])
		return nil
	},
}

var assignProfileCmd = &cobra.Command{
	Use:   "profile <repo-path> <profile-id>",
	Short: "Pin a profile to a repository path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		profile := c.Profiles.ByID(args[1])
		if profile == nil {
			return fmt.Errorf("no profile with id %s", args[1])
		}

		c.Profiles.AssignRepository(args[0], profile.ID)
		if err := c.saveProfiles(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "pinned profile %s (%s) to %s\n", profile.ID, profile.Name, args[0])
		return nil
	},
}

var unassignAccountCmd = &cobra.Command{
	Use:   "account <repo-path>",
	Short: "Remove a repository's account pin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		c.Accounts.UnassignRepository(args[0])
		if err := c.saveAccounts(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "unpinned account from %s\n", args[0])
		return nil
	},
}

var unassignProfileCmd = &cobra.Command{
	Use:   "profile <repo-path>",
	Short: "Remove a repository's profile pin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup()
		if err != nil {
			return err
		}
		defer c.Close()

		c.Profiles.UnassignRepository(args[0])
		if err := c.saveProfiles(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "unpinned profile from %s\n", args[0])
		return nil
	},
}

func init() {
	assignCmd.AddCommand(assignAccountCmd)
	assignCmd.AddCommand(assignProfileCmd)
	unassignCmd.AddCommand(unassignAccountCmd)
	unassignCmd.AddCommand(unassignProfileCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(unassignCmd)
}
